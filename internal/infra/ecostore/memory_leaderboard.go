package ecostore

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/aerosense/internal/domain/ecoaction"
)

// MemoryLeaderboard is an in-memory ranking for tests/dev.
type MemoryLeaderboard struct {
	mu     sync.RWMutex
	scores map[int64]float64
}

// NewMemoryLeaderboard constructs an empty leaderboard.
func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{scores: make(map[int64]float64)}
}

// AddScore implements ecoaction.Leaderboard.
func (b *MemoryLeaderboard) AddScore(_ context.Context, userID int64, delta float64) error {
	if userID <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scores[userID] += delta
	return nil
}

// Top returns the highest scores, ties broken by user id.
func (b *MemoryLeaderboard) Top(_ context.Context, limit int) ([]ecoaction.Score, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if limit <= 0 {
		limit = len(b.scores)
	}
	items := make([]ecoaction.Score, 0, len(b.scores))
	for id, value := range b.scores {
		items = append(items, ecoaction.Score{UserID: id, Value: value})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Value == items[j].Value {
			return items[i].UserID < items[j].UserID
		}
		return items[i].Value > items[j].Value
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ ecoaction.Leaderboard = (*MemoryLeaderboard)(nil)
