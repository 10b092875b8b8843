package simrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/aerosense/internal/domain/simulation"
)

// MemoryRepository keeps saved simulations in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]simulation.Simulation
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]simulation.Simulation)}
}

// Create stores the simulation as given.
func (r *MemoryRepository) Create(_ context.Context, sim simulation.Simulation) (simulation.Simulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[sim.ID] = sim
	return sim, nil
}

// ListByUser returns the user's simulations oldest first.
func (r *MemoryRepository) ListByUser(_ context.Context, userID int64) ([]simulation.Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]simulation.Simulation, 0)
	for _, sim := range r.items {
		if sim.UserID == userID {
			out = append(out, sim)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes the simulation when it belongs to userID.
func (r *MemoryRepository) Delete(_ context.Context, id string, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sim, ok := r.items[id]
	if !ok || sim.UserID != userID {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

var _ simulation.Repository = (*MemoryRepository)(nil)
