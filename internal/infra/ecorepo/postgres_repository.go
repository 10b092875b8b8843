package ecorepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/aerosense/internal/domain/ecoaction"
)

const uniqueViolation = "23505"

// PostgresRepository persists eco actions and user completions.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListActions(ctx context.Context) ([]ecoaction.Action, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, title, description, co2_saved_kg, category, difficulty
		FROM eco_actions
		ORDER BY created_at, title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ecoaction.Action, 0)
	for rows.Next() {
		var action ecoaction.Action
		if err := rows.Scan(&action.ID, &action.Title, &action.Description, &action.CO2SavedKg, &action.Category, &action.Difficulty); err != nil {
			return nil, err
		}
		out = append(out, action)
	}
	return out, rows.Err()
}

// CreateActions inserts the catalog in one batch. Titles are unique, so a
// concurrent seed from another instance is a no-op.
func (r *PostgresRepository) CreateActions(ctx context.Context, actions []ecoaction.Action) error {
	batch := &pgx.Batch{}
	for _, action := range actions {
		batch.Queue(`
			INSERT INTO eco_actions (id, title, description, co2_saved_kg, category, difficulty)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (title) DO NOTHING
		`, action.ID, action.Title, action.Description, action.CO2SavedKg, action.Category, action.Difficulty)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *PostgresRepository) GetAction(ctx context.Context, id string) (ecoaction.Action, bool, error) {
	if uuid.Validate(id) != nil {
		return ecoaction.Action{}, false, nil
	}
	var action ecoaction.Action
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, title, description, co2_saved_kg, category, difficulty
		FROM eco_actions
		WHERE id = $1::uuid
	`, id).Scan(&action.ID, &action.Title, &action.Description, &action.CO2SavedKg, &action.Category, &action.Difficulty)
	if errors.Is(err, pgx.ErrNoRows) {
		return ecoaction.Action{}, false, nil
	}
	if err != nil {
		return ecoaction.Action{}, false, err
	}
	return action, true, nil
}

func (r *PostgresRepository) HasCompletion(ctx context.Context, userID int64, actionID string) (bool, error) {
	if uuid.Validate(actionID) != nil {
		return false, nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_eco_actions WHERE user_id = $1 AND action_id = $2::uuid)
	`, userID, actionID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) CreateCompletion(ctx context.Context, completion ecoaction.Completion) (ecoaction.Completion, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_eco_actions (id, user_id, action_id, completed_at, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, completion.ID, completion.UserID, completion.ActionID, completion.CompletedAt, completion.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ecoaction.Completion{}, ecoaction.ErrAlreadyCompleted
		}
		return ecoaction.Completion{}, err
	}
	return completion, nil
}

func (r *PostgresRepository) ListCompletions(ctx context.Context, userID int64) ([]ecoaction.Completion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.user_id, c.action_id::text, c.completed_at, c.notes,
			a.title, a.description, a.co2_saved_kg, a.category, a.difficulty
		FROM user_eco_actions c
		JOIN eco_actions a ON a.id = c.action_id
		WHERE c.user_id = $1
		ORDER BY c.completed_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ecoaction.Completion, 0)
	for rows.Next() {
		var (
			completion ecoaction.Completion
			action     ecoaction.Action
			completed  time.Time
		)
		if err := rows.Scan(
			&completion.ID,
			&completion.UserID,
			&completion.ActionID,
			&completed,
			&completion.Notes,
			&action.Title,
			&action.Description,
			&action.CO2SavedKg,
			&action.Category,
			&action.Difficulty,
		); err != nil {
			return nil, err
		}
		action.ID = completion.ActionID
		completion.CompletedAt = completed.UTC()
		completion.Action = &action
		out = append(out, completion)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountCompletions(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_eco_actions`).Scan(&count)
	return count, err
}

func (r *PostgresRepository) TotalImpact(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(a.co2_saved_kg), 0)
		FROM user_eco_actions c
		JOIN eco_actions a ON a.id = c.action_id
	`).Scan(&total)
	return total, err
}

var _ ecoaction.Repository = (*PostgresRepository)(nil)
