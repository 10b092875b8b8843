package auth

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

func newTestService(repo *memoryRepo) Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		DefaultAdmin:    AdminSeed{Password: "password123"},
	}, repo, newTestLogger())
}

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	view, err := svc.Register(context.Background(), RegisterRequest{
		Username: "AirWatcher",
		Email:    "User@Example.com",
		Password: "pass1234",
		FullName: " Sam Lee ",
	})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", view.Email)
	require.Equal(t, "airwatcher", view.Username)
	require.Equal(t, "Sam Lee", view.FullName)
	require.Equal(t, RoleUser, view.Role)
	require.True(t, view.IsActive)
	require.NotZero(t, view.ID)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, view.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.Equal(t, "airwatcher", claims.Username)
	require.Equal(t, RoleUser, claims.Role)
	require.False(t, claims.IsAdmin())
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, resp.User.Email, refreshed.User.Email)
}

func TestService_DuplicateEmailAndUsername(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "first", Email: "user@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Username: "second", Email: "user@example.com", Password: "pass12345"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmailExists))

	_, err = svc.Register(context.Background(), RegisterRequest{Username: "FIRST", Email: "other@example.com", Password: "pass12345"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUsernameTaken))
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	cases := []RegisterRequest{
		{Username: "ok_name", Email: "not-an-email", Password: "pass1234"},
		{Username: "ab", Email: "a@b.co", Password: "pass1234"},
		{Username: "bad name", Email: "a@b.co", Password: "pass1234"},
		{Username: "goodname", Email: "a@b.co", Password: "short"},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "request %+v", req)
	}
}

func TestService_InactiveUserCannotLogin(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	view, err := svc.Register(context.Background(), RegisterRequest{Username: "sleepy", Email: "sleepy@example.com", Password: "pass1234"})
	require.NoError(t, err)
	u := repo.users[view.ID]
	u.IsActive = false
	repo.users[view.ID] = u

	_, err = svc.Login(context.Background(), LoginRequest{Email: "sleepy@example.com", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInactive))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "sleepy@example.com", Password: "wrong-pass"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))
}

func TestService_AdminFlows(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx))
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))
	require.Len(t, repo.users, 1)

	resp, err := svc.AdminLogin(ctx, AdminLoginRequest{Username: "Admin", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, resp.User.Role)
	claims, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	require.True(t, claims.IsAdmin())

	member, err := svc.Register(ctx, RegisterRequest{Username: "member", Email: "member@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.AdminLogin(ctx, AdminLoginRequest{Username: "member", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))

	_, err = svc.CreateAdmin(ctx, member.ID, CreateAdminRequest{Username: "sneaky", Email: "sneaky@example.com", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	_, err = svc.ListUsers(ctx, member.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	second, err := svc.CreateAdmin(ctx, resp.User.ID, CreateAdminRequest{Username: "ops", Email: "ops@example.com", Password: "pass1234"})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, second.Role)

	users, err := svc.ListUsers(ctx, resp.User.ID)
	require.NoError(t, err)
	require.Len(t, users, 3)
}

func TestService_EnsureDefaultAdminSkipsWithoutPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{Secret: "s", TokenTTL: time.Minute, RefreshTokenTTL: time.Hour}, repo, newTestLogger())
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	require.Empty(t, repo.users)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, nu NewUser) (User, error) {
	for _, u := range m.users {
		if u.Email == nu.Email {
			return User{}, ErrEmailExists
		}
		if u.Username == nu.Username {
			return User{}, ErrUsernameExists
		}
	}
	m.seq++
	user := User{
		ID:           m.seq,
		Username:     nu.Username,
		Email:        nu.Email,
		FullName:     nu.FullName,
		PasswordHash: nu.PasswordHash,
		Role:         nu.Role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByUsername(_ context.Context, username string) (User, bool, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *memoryRepo) List(context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) CountUsers(context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *memoryRepo) Usernames(_ context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u.Username
		}
	}
	return out, nil
}

func (m *memoryRepo) GetIdentity(context.Context, string, string) (Identity, bool, error) {
	return Identity{}, false, nil
}

func (m *memoryRepo) GetIdentityByUser(context.Context, int64, string) (Identity, bool, error) {
	return Identity{}, false, nil
}

func (m *memoryRepo) UpsertIdentity(_ context.Context, identity Identity) (Identity, error) {
	return identity, nil
}
