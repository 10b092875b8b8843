package reportrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/aerosense/internal/domain/report"
)

// PostgresRepository persists report metadata in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, rep report.Report) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reports (id, user_id, city, status, object_key, size_bytes, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rep.ID, rep.UserID, rep.City, rep.Status, rep.ObjectKey, rep.SizeBytes, rep.FailureReason, rep.CreatedAt, rep.UpdatedAt)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID, userID int64) (report.Report, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, city, status, object_key, size_bytes, failure_reason, created_at, updated_at
		FROM reports
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`, id, userID)
	var rep report.Report
	if err := row.Scan(&rep.ID, &rep.UserID, &rep.City, &rep.Status, &rep.ObjectKey, &rep.SizeBytes, &rep.FailureReason, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, false, nil
		}
		return report.Report{}, false, err
	}
	rep.CreatedAt = rep.CreatedAt.UTC()
	rep.UpdatedAt = rep.UpdatedAt.UTC()
	return rep, true, nil
}

func (r *PostgresRepository) MarkReady(ctx context.Context, id uuid.UUID, objectKey string, size int64) error {
	return r.exec(ctx, id, `
		UPDATE reports
		SET status = $1, object_key = $2, size_bytes = $3, failure_reason = NULL, updated_at = NOW()
		WHERE id = $4
	`, report.StatusReady, objectKey, size, id)
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.exec(ctx, id, `
		UPDATE reports
		SET status = $1, failure_reason = $2, updated_at = NOW()
		WHERE id = $3
	`, report.StatusFailed, reason, id)
}

func (r *PostgresRepository) exec(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found", id)
	}
	return nil
}

var _ report.Repository = (*PostgresRepository)(nil)
