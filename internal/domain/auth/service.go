package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

// Service exposes authentication and account administration workflows.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserView, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (LoginResponse, error)
	CreateAdmin(ctx context.Context, actorID int64, req CreateAdminRequest) (UserView, error)
	ListUsers(ctx context.Context, actorID int64) ([]UserView, error)
	EnsureDefaultAdmin(ctx context.Context) error
	GoogleAuthURL(ctx context.Context, state, codeChallenge string) (string, error)
	GoogleCallback(ctx context.Context, code, codeVerifier string) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Profile(ctx context.Context, userID int64) (UserView, error)
	Logout(ctx context.Context, userID int64) error
}

type service struct {
	repo   Repository
	tokens tokenIssuer
	seed   AdminSeed
	google *googleClient
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	return &service{
		repo: repo,
		tokens: tokenIssuer{
			secret:     []byte(cfg.Secret),
			accessTTL:  cfg.TokenTTL,
			refreshTTL: cfg.RefreshTokenTTL,
			now:        time.Now,
		},
		seed:   cfg.DefaultAdmin,
		google: newGoogleClient(cfg.Google),
		logger: logger.With("component", "auth.service"),
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserView, error) {
	user, err := s.createAccount(ctx, accountInput{
		username: req.Username,
		email:    req.Email,
		fullName: req.FullName,
		password: req.Password,
		role:     RoleUser,
	})
	if err != nil {
		return UserView{}, err
	}
	s.logger.Info("user registered", "userId", user.ID)
	return toView(user), nil
}

type accountInput struct {
	username string
	email    string
	fullName string
	password string
	role     string
}

func (s *service) createAccount(ctx context.Context, in accountInput) (User, error) {
	email, err := normalizeEmail(in.email)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	username, err := normalizeUsername(in.username)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if err := validatePassword(in.password); err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if err := s.ensureAvailable(ctx, email, username); err != nil {
		return User{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to hash password", err)
	}
	user, err := s.repo.Create(ctx, NewUser{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.fullName),
		PasswordHash: string(hashed),
		Role:         in.role,
	})
	if err != nil {
		return User{}, mapCreateError(err)
	}
	return user, nil
}

// ensureAvailable reports conflicts before hashing; the repository's unique
// constraints still decide races.
func (s *service) ensureAvailable(ctx context.Context, email, username string) error {
	if _, exists, err := s.repo.GetByEmail(ctx, email); err != nil {
		return apperrors.Wrap("auth_error", "failed to check user", err)
	} else if exists {
		return apperrors.Wrap(apperrors.CodeEmailExists, "email already registered", nil)
	}
	if _, exists, err := s.repo.GetByUsername(ctx, username); err != nil {
		return apperrors.Wrap("auth_error", "failed to check user", err)
	} else if exists {
		return apperrors.Wrap(apperrors.CodeUsernameTaken, "username already taken", nil)
	}
	return nil
}

func mapCreateError(err error) error {
	switch {
	case errors.Is(err, ErrEmailExists):
		return apperrors.Wrap(apperrors.CodeEmailExists, "email already registered", err)
	case errors.Is(err, ErrUsernameExists):
		return apperrors.Wrap(apperrors.CodeUsernameTaken, "username already taken", err)
	default:
		return apperrors.Wrap("auth_error", "failed to create user", err)
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "password cannot be empty", nil)
	}
	user, found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	if err := checkCredentials(user, found, req.Password, "invalid email or password"); err != nil {
		return LoginResponse{}, err
	}
	return s.issue(user)
}

// AdminLogin only accepts accounts carrying the admin role.
func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "username and password are required", nil)
	}
	user, found, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	if err := checkCredentials(user, found && user.Role == RoleAdmin, req.Password, "invalid admin credentials"); err != nil {
		return LoginResponse{}, err
	}
	s.logger.Info("admin signed in", "userId", user.ID)
	return s.issue(user)
}

// checkCredentials runs bcrypt only for known accounts and reports an inactive
// account only after the password matched.
func checkCredentials(user User, known bool, password, message string) error {
	if !known || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return apperrors.Wrap("invalid_credentials", message, nil)
	}
	if !user.IsActive {
		return apperrors.Wrap(apperrors.CodeInactive, "account is disabled", nil)
	}
	return nil
}

func (s *service) CreateAdmin(ctx context.Context, actorID int64, req CreateAdminRequest) (UserView, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return UserView{}, err
	}
	user, err := s.createAccount(ctx, accountInput{
		username: req.Username,
		email:    req.Email,
		password: req.Password,
		role:     RoleAdmin,
	})
	if err != nil {
		return UserView{}, err
	}
	s.logger.Info("admin created", "userId", user.ID, "createdBy", actorID)
	return toView(user), nil
}

func (s *service) ListUsers(ctx context.Context, actorID int64) ([]UserView, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("auth_error", "failed to list users", err)
	}
	out := make([]UserView, len(users))
	for i, u := range users {
		out[i] = toView(u)
	}
	return out, nil
}

// requireAdmin re-reads the actor so revoked or demoted admins lose access
// before their token expires.
func (s *service) requireAdmin(ctx context.Context, actorID int64) error {
	actor, err := s.activeUser(ctx, actorID)
	if err != nil {
		if apperrors.IsCode(err, "auth_error") {
			return err
		}
		return apperrors.Wrap(apperrors.CodeForbidden, "admin role required", nil)
	}
	if actor.Role != RoleAdmin {
		return apperrors.Wrap(apperrors.CodeForbidden, "admin role required", nil)
	}
	return nil
}

// EnsureDefaultAdmin creates the "admin" account once. A blank seed password skips it.
func (s *service) EnsureDefaultAdmin(ctx context.Context) error {
	_, found, err := s.repo.GetByUsername(ctx, DefaultAdminUsername)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to look up default admin", err)
	}
	if found {
		return nil
	}
	if strings.TrimSpace(s.seed.Password) == "" {
		s.logger.Warn("default admin password not configured, skipping bootstrap")
		return nil
	}
	email := strings.TrimSpace(s.seed.Email)
	if email == "" {
		email = "admin@aerosense.local"
	}
	user, err := s.createAccount(ctx, accountInput{
		username: DefaultAdminUsername,
		email:    email,
		fullName: "Administrator",
		password: s.seed.Password,
		role:     RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.logger.Info("default admin created", "userId", user.ID)
	return nil
}

func (s *service) ValidateToken(_ context.Context, token string) (Claims, error) {
	return s.tokens.parse(token, tokenTypeAccess)
}

func (s *service) Profile(ctx context.Context, userID int64) (UserView, error) {
	user, found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to load profile", err)
	}
	if !found {
		return UserView{}, apperrors.Wrap("user_not_found", "user not found", nil)
	}
	return toView(user), nil
}

// Refresh trades a refresh token for a new pair, re-checking the account.
func (s *service) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	claims, err := s.tokens.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return LoginResponse{}, err
	}
	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return LoginResponse{}, err
	}
	return s.issue(user)
}

func (s *service) activeUser(ctx context.Context, id int64) (User, error) {
	user, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to load user", err)
	}
	if !found {
		return User{}, apperrors.Wrap("user_not_found", "user not found", nil)
	}
	if !user.IsActive {
		return User{}, apperrors.Wrap(apperrors.CodeInactive, "account is disabled", nil)
	}
	return user, nil
}

func (s *service) issue(user User) (LoginResponse, error) {
	access, refresh, err := s.tokens.issuePair(user)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to sign token", err)
	}
	return LoginResponse{Token: access, RefreshToken: refresh, User: toView(user)}, nil
}

func toView(user User) UserView {
	return UserView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
