package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 8
)

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", err
	}
	if addr.Address != email {
		return "", errors.New("email must be a bare address")
	}
	return email, nil
}

// normalizeUsername lowercases and requires 3-30 characters from [a-z0-9._-].
func normalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return "", fmt.Errorf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}
	if strings.IndexFunc(username, func(r rune) bool { return !usernameRune(r) }) >= 0 {
		return "", errors.New("username may contain only letters, digits, '.', '_' and '-'")
	}
	return username, nil
}

func usernameRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '.' || r == '_' || r == '-'
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
