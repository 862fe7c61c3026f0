package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

const timingGuardPassword = "timing-guard-Passw0rd!"

type LoginInput struct {
	Email    string
	Password string
}

type Login struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	lockout ports.LoginLockoutStore
	log     zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewLogin wires the login flow. lockout may be nil.
func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, lockout ports.LoginLockoutStore, log zerolog.Logger) *Login {
	return &Login{users: users, hasher: hasher, tokens: tokens, lockout: lockout, log: log}
}

// Execute returns ErrInvalidCredentials for an unknown, inactive or wrong-password account alike.
func (uc *Login) Execute(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domerrors.ErrInvalidCredentials
	}
	if uc.lockout != nil {
		if locked, retry := uc.lockout.IsLocked(ctx, email); locked {
			return nil, &domerrors.LockedError{RetryAfterSeconds: retry}
		}
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.IsActive {
		// Spend the same hashing time as a real check.
		uc.hasher.Verify(input.Password, uc.timingGuardHash())
		uc.recordFailure(ctx, email)
		return nil, domerrors.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(input.Password, user.PasswordHash) {
		uc.recordFailure(ctx, email)
		return nil, domerrors.ErrInvalidCredentials
	}
	if uc.lockout != nil {
		uc.lockout.RecordSuccess(ctx, email)
	}
	uc.rehashIfStale(ctx, user, input.Password)
	token, expiresAt, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (uc *Login) recordFailure(ctx context.Context, email string) {
	if uc.lockout != nil {
		uc.lockout.RecordFailure(ctx, email)
	}
}

func (uc *Login) timingGuardHash() string {
	uc.dummyOnce.Do(func() {
		uc.dummyHash, _ = uc.hasher.Hash(timingGuardPassword)
	})
	return uc.dummyHash
}

func (uc *Login) rehashIfStale(ctx context.Context, user *domain.User, password string) {
	rc, ok := uc.hasher.(ports.RehashChecker)
	if !ok || !rc.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := uc.hasher.Hash(password)
	if err == nil {
		err = uc.users.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("password rehash failed")
		return
	}
	user.PasswordHash = hash
}
