package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// Validation limits.
const (
	MaxEmailLength       = 256
	MinPasswordLength    = 8
	MaxPasswordLength    = 100
	MaxDisplayNameLength = 100
)

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperRegex       = regexp.MustCompile(`[A-Z]`)
	lowerRegex       = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	passwordSpecials = `!@#$%^&*(),.?":{}|<>`
)

// ValidateEmail expects an already normalized address.
func ValidateEmail(email string) error {
	if email == "" {
		return domerrors.Invalid("email", "is required")
	}
	if len(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		return domerrors.Invalid("email", "must be a valid email address")
	}
	return nil
}

// ValidatePassword enforces length and character classes for new passwords.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case password == "":
		return domerrors.Invalid("password", "is required")
	case n < MinPasswordLength:
		return domerrors.Invalid("password", "must be at least 8 characters")
	case n > MaxPasswordLength:
		return domerrors.Invalid("password", "must not exceed 100 characters")
	case !upperRegex.MatchString(password):
		return domerrors.Invalid("password", "must contain at least one uppercase letter")
	case !lowerRegex.MatchString(password):
		return domerrors.Invalid("password", "must contain at least one lowercase letter")
	case !digitRegex.MatchString(password):
		return domerrors.Invalid("password", "must contain at least one digit")
	case !strings.ContainsAny(password, passwordSpecials):
		return domerrors.Invalid("password", "must contain at least one special character")
	}
	return nil
}

func validateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domerrors.Invalid("display_name", "is required")
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return domerrors.Invalid("display_name", "must not exceed 100 characters")
	}
	return nil
}
