package reportrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/aerosense/internal/domain/report"
)

// MemoryRepository tracks report metadata in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]report.Report
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reports: make(map[uuid.UUID]report.Report)}
}

func (r *MemoryRepository) Create(_ context.Context, rep report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[rep.ID]; exists {
		return fmt.Errorf("report %s already exists", rep.ID)
	}
	r.reports[rep.ID] = rep
	return nil
}

// Get returns the report only when userID owns it.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID, userID int64) (report.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[id]
	if !ok || rep.UserID != userID {
		return report.Report{}, false, nil
	}
	return rep, true, nil
}

func (r *MemoryRepository) MarkReady(_ context.Context, id uuid.UUID, objectKey string, size int64) error {
	return r.update(id, func(rep *report.Report) {
		rep.Status = report.StatusReady
		rep.ObjectKey = objectKey
		rep.SizeBytes = size
		rep.FailureReason = nil
	})
}

func (r *MemoryRepository) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	return r.update(id, func(rep *report.Report) {
		rep.Status = report.StatusFailed
		rep.FailureReason = &reason
	})
}

func (r *MemoryRepository) update(id uuid.UUID, apply func(*report.Report)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return fmt.Errorf("report %s not found", id)
	}
	apply(&rep)
	rep.UpdatedAt = time.Now().UTC()
	r.reports[id] = rep
	return nil
}

var _ report.Repository = (*MemoryRepository)(nil)
