package ports

import (
	"time"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// PasswordHasher hashes and verifies passwords. Verify never fails loudly on malformed input.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// RehashChecker is implemented by hashers that can tell when a stored hash uses stale parameters.
type RehashChecker interface {
	NeedsRehash(hash string) bool
}

// TokenService signs and validates HS256 session tokens.
type TokenService interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
	Validate(token string) (*domain.Claims, error)
}
