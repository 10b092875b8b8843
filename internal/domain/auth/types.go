package auth

import "time"

// Roles carried in tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAdminUsername is the account ensured at startup.
const DefaultAdminUsername = "admin"

// Config drives authentication behavior.
type Config struct {
	Secret          string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
	Google          GoogleConfig
	DefaultAdmin    AdminSeed
}

// AdminSeed describes the bootstrap administrator.
type AdminSeed struct {
	Email    string
	Password string
}

// GoogleConfig holds OAuth settings for Google sign-in.
type GoogleConfig struct {
	ClientID             string
	ClientSecret         string
	RedirectURL          string
	TokenEncryptionKey   string
	PostLoginRedirectURL string
}

// User represents a persisted account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser is the insert payload for Repository.Create.
type NewUser struct {
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	Role         string
}

// Identity represents an external auth provider linkage.
type Identity struct {
	ID              int64
	UserID          int64
	Provider        string
	ProviderSubject string
	ProviderEmail   string
	RefreshToken    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest authenticates an administrator by username.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAdminRequest provisions another administrator.
type CreateAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// UserView trims sensitive fields.
type UserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	UserID    int64
	Username  string
	Email     string
	Role      string
	TokenType string
	ExpiresAt time.Time
}

// IsAdmin reports whether the token belongs to an administrator.
func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// RefreshRequest encapsulates refresh token payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
