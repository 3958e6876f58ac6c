package domain

import (
	"net/mail"
	"strings"
	"time"
)

// MinPasswordLength is the minimum length of a raw password after trimming.
const MinPasswordLength = 7

// User models an account holder. The password hash, avatar bytes, and the
// session token list are never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	Avatar       []byte    `json:"-"`
	Tokens       []string  `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAvatar reports whether the user has a stored avatar image.
func (u *User) HasAvatar() bool {
	return len(u.Avatar) > 0
}

// NormalizeEmail trims and lowercases an email address and verifies its
// syntax. Display-name forms ("Alice <a@b.c>") are rejected.
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", Validation("email is invalid")
	}
	return normalized, nil
}

// ValidatePassword enforces the raw-password rules: minimum length and no
// occurrence of the substring "password" in any case.
func ValidatePassword(raw string) error {
	raw = strings.TrimSpace(raw)
	if len(raw) < MinPasswordLength {
		return Validation("password must be at least 7 characters")
	}
	if strings.Contains(strings.ToLower(raw), "password") {
		return Validation(`password cannot contain "password"`)
	}
	return nil
}

// ValidateName enforces a non-empty display name after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return Validation("name is required")
	}
	return nil
}

// ValidateAge enforces a non-negative age.
func ValidateAge(age int) error {
	if age < 0 {
		return Validation("age must be a positive number")
	}
	return nil
}
