package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/aerosense/internal/domain/auth"
)

func TestMemoryRepositoryUniqueness(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, auth.NewUser{Username: "asha", Email: "asha@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	require.Equal(t, auth.RoleUser, user.Role)
	require.True(t, user.IsActive)

	_, err = repo.Create(ctx, auth.NewUser{Username: "other", Email: "asha@example.com"})
	require.ErrorIs(t, err, auth.ErrEmailExists)
	_, err = repo.Create(ctx, auth.NewUser{Username: "asha", Email: "new@example.com"})
	require.ErrorIs(t, err, auth.ErrUsernameExists)

	found, ok, err := repo.GetByUsername(ctx, "asha")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user.ID, found.ID)
}

func TestMemoryRepositoryDirectory(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	a, err := repo.Create(ctx, auth.NewUser{Username: "a", Email: "a@example.com"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, auth.NewUser{Username: "b", Email: "b@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	names, err := repo.Usernames(ctx, []int64{a.ID, b.ID, 99})
	require.NoError(t, err)
	require.Equal(t, map[int64]string{a.ID: "a", b.ID: "b"}, names)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, auth.RoleAdmin, users[1].Role)
}

func TestMemoryRepositoryUpsertIdentityKeepsToken(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.UpsertIdentity(ctx, auth.Identity{Provider: "google", ProviderSubject: "sub"})
	require.Error(t, err)

	first, err := repo.UpsertIdentity(ctx, auth.Identity{UserID: 1, Provider: "google", ProviderSubject: "sub", RefreshToken: "tok"})
	require.NoError(t, err)
	second, err := repo.UpsertIdentity(ctx, auth.Identity{UserID: 1, Provider: "google", ProviderSubject: "sub", ProviderEmail: "a@example.com"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "tok", second.RefreshToken)

	byUser, ok, err := repo.GetIdentityByUser(ctx, 1, "google")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a@example.com", byUser.ProviderEmail)
}
