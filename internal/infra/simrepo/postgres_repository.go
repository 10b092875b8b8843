package simrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/aerosense/internal/domain/simulation"
)

// PostgresRepository persists simulations with the scenario stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, sim simulation.Simulation) (simulation.Simulation, error) {
	params, err := json.Marshal(sim.Scenario)
	if err != nil {
		return simulation.Simulation{}, fmt.Errorf("encode scenario: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO simulations (id, user_id, name, parameters, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sim.ID, sim.UserID, sim.Name, params, sim.CreatedAt)
	if err != nil {
		return simulation.Simulation{}, err
	}
	return sim, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]simulation.Simulation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id, name, parameters, created_at
		FROM simulations
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]simulation.Simulation, 0)
	for rows.Next() {
		var (
			sim     simulation.Simulation
			params  []byte
			created time.Time
		)
		if err := rows.Scan(&sim.ID, &sim.UserID, &sim.Name, &params, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(params, &sim.Scenario); err != nil {
			return nil, fmt.Errorf("decode scenario %s: %w", sim.ID, err)
		}
		sim.CreatedAt = created.UTC()
		out = append(out, sim)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM simulations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ simulation.Repository = (*PostgresRepository)(nil)
