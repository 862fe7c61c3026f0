package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidToken           = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrAccountLocked          = errors.New("account temporarily locked")
)

// ValidationError describes a single rejected field. It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return "invalid input: " + e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid returns a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// LockedError carries the remaining cooldown of a locked account.
type LockedError struct {
	RetryAfterSeconds int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s, retry after %ds", ErrAccountLocked.Error(), e.RetryAfterSeconds)
}

func (e *LockedError) Is(target error) bool { return target == ErrAccountLocked }
