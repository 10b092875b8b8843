package report

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

// Repository persists report metadata.
type Repository interface {
	Create(ctx context.Context, rep Report) error
	Get(ctx context.Context, id uuid.UUID, userID int64) (Report, bool, error)
	MarkReady(ctx context.Context, id uuid.UUID, objectKey string, size int64) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// ObjectStorage persists generated files.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// JobQueue enqueues background work.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload map[string]any) error
}

// AnnualSource supplies the series a report is built from.
type AnnualSource interface {
	Resolve(ctx context.Context, city string) (environment.Location, error)
	Annual(ctx context.Context, city string) ([]environment.AnnualPoint, error)
}
