package prefrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/aerosense/internal/domain/preferences"
)

// MemoryRepository stores settings and favorites in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	settings  map[int64]preferences.Settings
	favorites map[string]preferences.Favorite
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		settings:  make(map[int64]preferences.Settings),
		favorites: make(map[string]preferences.Favorite),
	}
}

// GetSettings returns the stored settings row for userID.
func (r *MemoryRepository) GetSettings(_ context.Context, userID int64) (preferences.Settings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.settings[userID]
	return settings, ok, nil
}

// UpsertSettings replaces the row, keeping the original id.
func (r *MemoryRepository) UpsertSettings(_ context.Context, settings preferences.Settings) (preferences.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.settings[settings.UserID]; ok {
		settings.ID = existing.ID
	}
	r.settings[settings.UserID] = settings
	return settings, nil
}

func (r *MemoryRepository) CreateFavorite(_ context.Context, fav preferences.Favorite) (preferences.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favorites[fav.ID] = fav
	return fav, nil
}

// ListFavorites returns the user's favorites oldest first.
func (r *MemoryRepository) ListFavorites(_ context.Context, userID int64) ([]preferences.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]preferences.Favorite, 0)
	for _, fav := range r.favorites {
		if fav.UserID == userID {
			out = append(out, fav)
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

func (r *MemoryRepository) DeleteFavorite(_ context.Context, id string, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fav, ok := r.favorites[id]
	if !ok || fav.UserID != userID {
		return false, nil
	}
	delete(r.favorites, id)
	return true, nil
}

var (
	_ preferences.SettingsRepository = (*MemoryRepository)(nil)
	_ preferences.FavoriteRepository = (*MemoryRepository)(nil)
)
