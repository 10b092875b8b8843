package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

func TestGoogleUsernameBase(t *testing.T) {
	require.Equal(t, "priya", googleUsernameBase(googleProfile{GivenName: "Priya", Email: "p@example.com"}))
	require.Equal(t, "jordanlee", googleUsernameBase(googleProfile{Name: "Jordan Lee"}))
	require.Equal(t, "userjo", googleUsernameBase(googleProfile{Email: "jo@example.com"}))
	require.Equal(t, "user", googleUsernameBase(googleProfile{GivenName: "李"}))
	require.Len(t, googleUsernameBase(googleProfile{GivenName: strings.Repeat("a", 50)}), maxUsernameLength)
}

func TestNewOAuthState(t *testing.T) {
	state, verifier, challenge, err := NewOAuthState()
	require.NoError(t, err)
	require.NotEmpty(t, state)
	require.Equal(t, oauth2.S256ChallengeFromVerifier(verifier), challenge)

	again, _, _, err := NewOAuthState()
	require.NoError(t, err)
	require.NotEqual(t, state, again)
}

func TestGoogleNotConfigured(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	_, err := svc.GoogleAuthURL(context.Background(), "state", "challenge")
	require.True(t, apperrors.IsCode(err, "auth_not_configured"))
	_, err = svc.GoogleCallback(context.Background(), "code", "verifier")
	require.True(t, apperrors.IsCode(err, "auth_not_configured"))
}

func TestGoogleAuthURL(t *testing.T) {
	svc := NewService(Config{
		Secret:   "s",
		TokenTTL: 1,
		Google: GoogleConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
		},
	}, newMemoryRepo(), newTestLogger())

	url, err := svc.GoogleAuthURL(context.Background(), "st4te", "ch4llenge")
	require.NoError(t, err)
	require.Contains(t, url, "state=st4te")
	require.Contains(t, url, "code_challenge=ch4llenge")
	require.Contains(t, url, "code_challenge_method=S256")
	require.Contains(t, url, "access_type=offline")

	_, err = svc.GoogleAuthURL(context.Background(), "", "ch4llenge")
	require.True(t, apperrors.IsCode(err, "invalid_request"))
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo).(*service)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "priya", Email: "taken@example.com", Password: "pass1234"})
	require.NoError(t, err)

	user, err := svc.findOrCreateGoogleUser(ctx, googleProfile{
		Subject:   "sub-1",
		Email:     "Priya@Example.com",
		GivenName: "Priya",
		Name:      "Priya Shah",
	})
	require.NoError(t, err)
	require.Equal(t, "priya@example.com", user.Email)
	require.Equal(t, "Priya Shah", user.FullName)
	require.NotEqual(t, "priya", user.Username)
	require.True(t, strings.HasPrefix(user.Username, "priya-"))

	_, err = svc.Login(ctx, LoginRequest{Email: "priya@example.com", Password: "anything1"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))

	_, err = svc.findOrCreateGoogleUser(ctx, googleProfile{Subject: "sub-2", Email: "taken@example.com"})
	require.True(t, apperrors.IsCode(err, "account_linking_disabled"))
}

func TestTokenSealer(t *testing.T) {
	sealer := newTokenSealer("any length secret")
	sealed, err := sealer.seal("sub-1", "refresh-token")
	require.NoError(t, err)
	require.NotEqual(t, "refresh-token", sealed)

	opened, err := sealer.open("sub-1", sealed)
	require.NoError(t, err)
	require.Equal(t, "refresh-token", opened)

	_, err = sealer.open("sub-2", sealed)
	require.Error(t, err)

	_, err = newTokenSealer("different").open("sub-1", sealed)
	require.Error(t, err)

	disabled := newTokenSealer("")
	sealed, err = disabled.seal("sub-1", "refresh-token")
	require.NoError(t, err)
	require.Empty(t, sealed)
}

func TestLogoutWithoutIdentity(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	require.NoError(t, svc.Logout(context.Background(), 99))
}
