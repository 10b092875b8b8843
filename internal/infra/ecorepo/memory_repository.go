package ecorepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/aerosense/internal/domain/ecoaction"
)

// MemoryRepository keeps the catalog and completion log in process memory.
type MemoryRepository struct {
	mu          sync.RWMutex
	actions     []ecoaction.Action
	completions []ecoaction.Completion
	done        map[completionKey]struct{}
}

type completionKey struct {
	userID   int64
	actionID string
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{done: make(map[completionKey]struct{})}
}

// ListActions returns the catalog in insertion order.
func (r *MemoryRepository) ListActions(_ context.Context) ([]ecoaction.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ecoaction.Action, len(r.actions))
	copy(out, r.actions)
	return out, nil
}

func (r *MemoryRepository) CreateActions(_ context.Context, actions []ecoaction.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make(map[string]bool, len(r.actions))
	for _, existing := range r.actions {
		titles[existing.Title] = true
	}
	for _, action := range actions {
		if titles[action.Title] {
			continue
		}
		titles[action.Title] = true
		r.actions = append(r.actions, action)
	}
	return nil
}

func (r *MemoryRepository) GetAction(_ context.Context, id string) (ecoaction.Action, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, action := range r.actions {
		if action.ID == id {
			return action, true, nil
		}
	}
	return ecoaction.Action{}, false, nil
}

func (r *MemoryRepository) HasCompletion(_ context.Context, userID int64, actionID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.done[completionKey{userID: userID, actionID: actionID}]
	return ok, nil
}

// CreateCompletion enforces one completion per user and action.
func (r *MemoryRepository) CreateCompletion(_ context.Context, completion ecoaction.Completion) (ecoaction.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := completionKey{userID: completion.UserID, actionID: completion.ActionID}
	if _, ok := r.done[key]; ok {
		return ecoaction.Completion{}, ecoaction.ErrAlreadyCompleted
	}
	completion.Action = nil
	r.done[key] = struct{}{}
	r.completions = append(r.completions, completion)
	return completion, nil
}

func (r *MemoryRepository) ListCompletions(_ context.Context, userID int64) ([]ecoaction.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byID := make(map[string]ecoaction.Action, len(r.actions))
	for _, action := range r.actions {
		byID[action.ID] = action
	}
	out := make([]ecoaction.Completion, 0)
	for _, completion := range r.completions {
		if completion.UserID != userID {
			continue
		}
		if action, ok := byID[completion.ActionID]; ok {
			completion.Action = &action
		}
		out = append(out, completion)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (r *MemoryRepository) CountCompletions(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.completions)), nil
}

// TotalImpact sums CO2 saved across every completion.
func (r *MemoryRepository) TotalImpact(_ context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byID := make(map[string]float64, len(r.actions))
	for _, action := range r.actions {
		byID[action.ID] = action.CO2SavedKg
	}
	var total float64
	for _, completion := range r.completions {
		total += byID[completion.ActionID]
	}
	return total, nil
}

var _ ecoaction.Repository = (*MemoryRepository)(nil)
