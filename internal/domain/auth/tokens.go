package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

const (
	tokenIssuerName  = "aerosense"
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// tokenIssuer signs and verifies HS256 access and refresh tokens.
type tokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Type     string `json:"type"`
}

func (t tokenIssuer) issuePair(user User) (string, string, error) {
	access, err := t.sign(user, tokenTypeAccess, t.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := t.sign(user, tokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (t tokenIssuer) sign(user User, kind string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuerName,
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Type:     kind,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// parse verifies signature, issuer and expiry, then requires the given token type.
func (t tokenIssuer) parse(raw, kind string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing", nil)
	}
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	if claims.Type != kind {
		return Claims{}, apperrors.Wrap("invalid_token", "token type mismatch", nil)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token subject malformed", err)
	}
	return Claims{
		UserID:    userID,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenType: claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
