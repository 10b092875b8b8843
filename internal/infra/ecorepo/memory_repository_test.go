package ecorepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aerosense/internal/domain/ecoaction"
)

func TestMemoryRepositoryCompletions(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateActions(ctx, []ecoaction.Action{
		{ID: "bike", Title: "Bike to work", CO2SavedKg: 2.5},
		{ID: "veg", Title: "Meat-free day", CO2SavedKg: 1.5},
	}))

	action, ok, err := repo.GetAction(ctx, "veg")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Meat-free day", action.Title)

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	_, err = repo.CreateCompletion(ctx, ecoaction.Completion{ID: "c1", UserID: 1, ActionID: "bike", CompletedAt: base})
	require.NoError(t, err)
	_, err = repo.CreateCompletion(ctx, ecoaction.Completion{ID: "c2", UserID: 1, ActionID: "veg", CompletedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.CreateCompletion(ctx, ecoaction.Completion{ID: "c3", UserID: 1, ActionID: "bike", CompletedAt: base.Add(2 * time.Hour)})
	require.ErrorIs(t, err, ecoaction.ErrAlreadyCompleted)
	_, err = repo.CreateCompletion(ctx, ecoaction.Completion{ID: "c4", UserID: 2, ActionID: "bike", CompletedAt: base})
	require.NoError(t, err)

	done, err := repo.HasCompletion(ctx, 2, "bike")
	require.NoError(t, err)
	require.True(t, done)

	history, err := repo.ListCompletions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "c2", history[0].ID)
	require.NotNil(t, history[0].Action)
	require.Equal(t, 1.5, history[0].Action.CO2SavedKg)

	count, err := repo.CountCompletions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	total, err := repo.TotalImpact(ctx)
	require.NoError(t, err)
	require.InDelta(t, 6.5, total, 1e-9)
}

func TestMemoryRepositoryCreateActionsSkipsKnownTitles(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	catalog := []ecoaction.Action{{ID: "a", Title: "Bike to work"}, {ID: "b", Title: "Meat-free day"}}
	require.NoError(t, repo.CreateActions(ctx, catalog))
	require.NoError(t, repo.CreateActions(ctx, []ecoaction.Action{{ID: "c", Title: "Bike to work"}, {ID: "d", Title: "Line dry laundry"}}))

	actions, err := repo.ListActions(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	_, ok, err := repo.GetAction(ctx, "c")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPostgresRepositoryRejectsMalformedIDsBeforeQuerying(t *testing.T) {
	repo := NewPostgresRepository(nil)
	ctx := context.Background()

	_, ok, err := repo.GetAction(ctx, "not-a-uuid")
	require.NoError(t, err)
	require.False(t, ok)

	done, err := repo.HasCompletion(ctx, 1, "'; DROP TABLE eco_actions; --")
	require.NoError(t, err)
	require.False(t, done)
}
