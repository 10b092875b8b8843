package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

const (
	googleProvider  = "google"
	googleIssuer    = "https://accounts.google.com"
	googleRevokeURL = "https://oauth2.googleapis.com/revoke"
)

// googleClient wraps the OAuth2 code flow and ID token verification for
// Google sign-in. The OIDC verifier is built on first use and then reused.
type googleClient struct {
	oauth      *oauth2.Config
	sealer     tokenSealer
	httpClient *http.Client

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

type googleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

type googleGrant struct {
	profile      googleProfile
	refreshToken string
}

func newGoogleClient(cfg GoogleConfig) *googleClient {
	gc := &googleClient{
		sealer:     newTokenSealer(cfg.TokenEncryptionKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RedirectURL != "" {
		gc.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		}
	}
	return gc
}

func (g *googleClient) configured() error {
	if g == nil || g.oauth == nil {
		return apperrors.Wrap("auth_not_configured", "google sign-in is not configured", nil)
	}
	return nil
}

func (g *googleClient) authURL(state, challenge string) string {
	return g.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// exchange redeems the code and verifies the returned ID token.
func (g *googleClient) exchange(ctx context.Context, code, verifier string) (googleGrant, error) {
	token, err := g.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return googleGrant{}, apperrors.Wrap("oauth_exchange_failed", "failed to exchange oauth code", err)
	}
	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return googleGrant{}, apperrors.Wrap("oauth_exchange_failed", "missing id_token in oauth response", nil)
	}
	idVerifier, err := g.idVerifier(ctx)
	if err != nil {
		return googleGrant{}, apperrors.Wrap("oauth_exchange_failed", "failed to initialise oidc provider", err)
	}
	idToken, err := idVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		return googleGrant{}, apperrors.Wrap("invalid_token", "invalid google id token", err)
	}
	var profile googleProfile
	if err := idToken.Claims(&profile); err != nil {
		return googleGrant{}, apperrors.Wrap("invalid_token", "unreadable google id token", err)
	}
	if profile.Subject == "" {
		return googleGrant{}, apperrors.Wrap("invalid_token", "missing google subject", nil)
	}
	if !profile.EmailVerified {
		return googleGrant{}, apperrors.Wrap("invalid_credentials", "google account email not verified", nil)
	}
	return googleGrant{profile: profile, refreshToken: token.RefreshToken}, nil
}

func (g *googleClient) idVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifier != nil {
		return g.verifier, nil
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, err
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.oauth.ClientID})
	return g.verifier, nil
}

func (g *googleClient) revoke(ctx context.Context, refreshToken string) error {
	form := url.Values{"token": {refreshToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleRevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google revoke returned status %d", resp.StatusCode)
	}
	return nil
}

// NewOAuthState returns a fresh state value, a PKCE verifier and its S256 challenge.
func NewOAuthState() (state, verifier, challenge string, err error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", "", "", err
	}
	verifier = oauth2.GenerateVerifier()
	return id.String(), verifier, oauth2.S256ChallengeFromVerifier(verifier), nil
}

func (s *service) GoogleAuthURL(_ context.Context, state, codeChallenge string) (string, error) {
	if err := s.google.configured(); err != nil {
		return "", err
	}
	if state == "" || codeChallenge == "" {
		return "", apperrors.Wrap("invalid_request", "missing oauth state or challenge", nil)
	}
	return s.google.authURL(state, codeChallenge), nil
}

// GoogleCallback signs in the account linked to the Google subject, creating
// one on first login. Existing password accounts are never linked by email.
func (s *service) GoogleCallback(ctx context.Context, code, codeVerifier string) (LoginResponse, error) {
	if err := s.google.configured(); err != nil {
		return LoginResponse{}, err
	}
	if code == "" || codeVerifier == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_request", "missing oauth code or verifier", nil)
	}
	grant, err := s.google.exchange(ctx, code, codeVerifier)
	if err != nil {
		return LoginResponse{}, err
	}
	user, err := s.findOrCreateGoogleUser(ctx, grant.profile)
	if err != nil {
		return LoginResponse{}, err
	}
	if !user.IsActive {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInactive, "account is disabled", nil)
	}
	if err := s.linkGoogleIdentity(ctx, user.ID, grant); err != nil {
		return LoginResponse{}, err
	}
	return s.issue(user)
}

func (s *service) findOrCreateGoogleUser(ctx context.Context, profile googleProfile) (User, error) {
	identity, linked, err := s.repo.GetIdentity(ctx, googleProvider, profile.Subject)
	if err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to fetch identity", err)
	}
	if linked {
		user, found, err := s.repo.GetByID(ctx, identity.UserID)
		if err != nil {
			return User{}, apperrors.Wrap("auth_error", "failed to load user", err)
		}
		if !found {
			return User{}, apperrors.Wrap("user_not_found", "user not found", nil)
		}
		return user, nil
	}

	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	if _, exists, err := s.repo.GetByEmail(ctx, email); err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to check existing user", err)
	} else if exists {
		return User{}, apperrors.Wrap("account_linking_disabled", "an account with this email already exists", nil)
	}
	username, err := s.availableUsername(ctx, googleUsernameBase(profile))
	if err != nil {
		return User{}, err
	}
	hash, err := unusablePasswordHash()
	if err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to generate password hash", err)
	}
	user, err := s.repo.Create(ctx, NewUser{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(profile.Name),
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		return User{}, mapCreateError(err)
	}
	s.logger.Info("user created from google sign-in", "userId", user.ID)
	return user, nil
}

// linkGoogleIdentity records the subject and keeps the previously stored
// refresh token when Google does not return a new one.
func (s *service) linkGoogleIdentity(ctx context.Context, userID int64, grant googleGrant) error {
	identity := Identity{
		UserID:          userID,
		Provider:        googleProvider,
		ProviderSubject: grant.profile.Subject,
		ProviderEmail:   strings.ToLower(grant.profile.Email),
	}
	if grant.refreshToken != "" {
		sealed, err := s.google.sealer.seal(grant.profile.Subject, grant.refreshToken)
		if err != nil {
			return apperrors.Wrap("auth_error", "failed to protect refresh token", err)
		}
		identity.RefreshToken = sealed
	} else if existing, found, err := s.repo.GetIdentity(ctx, googleProvider, grant.profile.Subject); err != nil {
		return apperrors.Wrap("auth_error", "failed to fetch identity", err)
	} else if found {
		identity.RefreshToken = existing.RefreshToken
	}
	if _, err := s.repo.UpsertIdentity(ctx, identity); err != nil {
		return apperrors.Wrap("auth_error", "failed to save identity", err)
	}
	return nil
}

// Logout revokes the stored Google grant if there is one. Revocation failures
// are logged, never returned.
func (s *service) Logout(ctx context.Context, userID int64) error {
	identity, found, err := s.repo.GetIdentityByUser(ctx, userID, googleProvider)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to fetch identity", err)
	}
	if !found || identity.RefreshToken == "" {
		return nil
	}
	refreshToken, err := s.google.sealer.open(identity.ProviderSubject, identity.RefreshToken)
	if err != nil || refreshToken == "" {
		if err != nil {
			s.logger.Warn("stored google refresh token unreadable", "userId", userID, "error", err)
		}
		return nil
	}
	if err := s.google.revoke(ctx, refreshToken); err != nil {
		s.logger.Warn("google token revoke failed", "userId", userID, "error", err)
	}
	return nil
}

func (s *service) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		_, taken, err := s.repo.GetByUsername(ctx, candidate)
		if err != nil {
			return "", apperrors.Wrap("auth_error", "failed to check username", err)
		}
		if !taken {
			return candidate, nil
		}
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		candidate = truncate(base, maxUsernameLength-len(suffix)-1) + "-" + suffix
	}
	return "", apperrors.Wrap("auth_error", "could not allocate a username", nil)
}

// googleUsernameBase derives a valid username from the profile, preferring
// the given name, then the full name, then the email local part.
func googleUsernameBase(profile googleProfile) string {
	local, _, _ := strings.Cut(profile.Email, "@")
	for _, source := range []string{profile.GivenName, profile.Name, local} {
		name := usernameFrom(source)
		if name == "" {
			continue
		}
		if len(name) < minUsernameLength {
			name = "user" + name
		}
		return truncate(name, maxUsernameLength)
	}
	return "user"
}

func usernameFrom(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if usernameRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// unusablePasswordHash gives Google-only accounts a random bcrypt hash so
// password login always fails for them.
func unusablePasswordHash() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
