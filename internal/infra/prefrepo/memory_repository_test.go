package prefrepo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aerosense/internal/domain/preferences"
)

func TestMemoryRepositoryUpsertKeepsID(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, ok, err := repo.GetSettings(ctx, 7)
	require.NoError(t, err)
	require.False(t, ok)

	first, err := repo.UpsertSettings(ctx, preferences.Settings{ID: "s1", UserID: 7, SelectedCity: "London"})
	require.NoError(t, err)
	require.Equal(t, "s1", first.ID)

	second, err := repo.UpsertSettings(ctx, preferences.Settings{ID: "s2", UserID: 7, SelectedCity: "Delhi", Preferences: json.RawMessage(`{"units":"metric"}`)})
	require.NoError(t, err)
	require.Equal(t, "s1", second.ID)

	got, ok, err := repo.GetSettings(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Delhi", got.SelectedCity)
}

func TestMemoryRepositoryFavorites(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.CreateFavorite(ctx, preferences.Favorite{ID: "f2", UserID: 1, CityName: "Paris", CreatedAt: now.Add(time.Minute)})
	require.NoError(t, err)
	_, err = repo.CreateFavorite(ctx, preferences.Favorite{ID: "f1", UserID: 1, CityName: "Tokyo", CreatedAt: now})
	require.NoError(t, err)

	list, err := repo.ListFavorites(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Tokyo", list[0].CityName)
	require.Equal(t, "Paris", list[1].CityName)

	removed, err := repo.DeleteFavorite(ctx, "f1", 2)
	require.NoError(t, err)
	require.False(t, removed)
	removed, err = repo.DeleteFavorite(ctx, "f1", 1)
	require.NoError(t, err)
	require.True(t, removed)
}
