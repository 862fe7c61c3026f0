package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/policy"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type RegisterUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterUser creates Staff and Admin accounts and signs them in.
type RegisterUser struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	now    func() time.Time
}

func NewRegisterUser(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService) *RegisterUser {
	return &RegisterUser{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// Execute writes exactly one user on success and nothing on any validation failure.
func (uc *RegisterUser) Execute(ctx context.Context, input RegisterUserInput) (*AuthResult, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	if !policy.CanRegisterRole(role) {
		return nil, domerrors.Invalid("role", "only Staff or Admin accounts can be registered")
	}
	email := domain.NormalizeEmail(input.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, domerrors.ErrEmailAlreadyRegistered
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// The store re-checks uniqueness atomically; a lost race surfaces here.
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domerrors.ErrEmailAlreadyRegistered) {
			return nil, domerrors.ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	token, expiresAt, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
