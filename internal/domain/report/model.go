package report

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks an export through the worker.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// JobExport is the queue job name for report generation.
const JobExport = "report.export"

// Report is an annual air-quality export owned by a user.
type Report struct {
	ID            uuid.UUID `json:"id"`
	UserID        int64     `json:"userId"`
	City          string    `json:"city"`
	Status        Status    `json:"status"`
	ObjectKey     string    `json:"-"`
	SizeBytes     int64     `json:"sizeBytes,omitempty"`
	FailureReason *string   `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ExportRequest asks for a report of one city.
type ExportRequest struct {
	City string `json:"city"`
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// Download is a ready report's content stream.
type Download struct {
	Filename    string
	ContentType string
	Size        int64
}
