package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type ProvisionUserInput struct {
	Email                string
	Password             string
	DisplayName          string
	Role                 string
	ClientOrganisationID *domain.ClientOrganisationID
}

// ProvisionUser is the administrative path that may create any role, including Client.
type ProvisionUser struct {
	users  ports.UserRepository
	orgs   ports.OrganisationRepository
	hasher ports.PasswordHasher
	now    func() time.Time
}

func NewProvisionUser(users ports.UserRepository, orgs ports.OrganisationRepository, hasher ports.PasswordHasher) *ProvisionUser {
	return &ProvisionUser{users: users, orgs: orgs, hasher: hasher, now: time.Now}
}

func (uc *ProvisionUser) Execute(ctx context.Context, input ProvisionUserInput) (*domain.User, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
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
	var tenant *domain.ClientOrganisationID
	if role == domain.RoleClient {
		if input.ClientOrganisationID == nil {
			return nil, domerrors.Invalid("client_organisation_id", "is required for Client users")
		}
		org, err := uc.orgs.GetByID(ctx, *input.ClientOrganisationID)
		if err != nil {
			return nil, fmt.Errorf("lookup organisation: %w", err)
		}
		if org == nil || !org.IsActive {
			return nil, domerrors.Invalid("client_organisation_id", "must reference an active organisation")
		}
		tenant = org.ID.Ptr()
	} else if input.ClientOrganisationID != nil {
		return nil, domerrors.Invalid("client_organisation_id", "must be empty for Staff and Admin users")
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
		ID:                   domain.NewUserID(uuid.New()),
		Email:                email,
		PasswordHash:         hash,
		DisplayName:          strings.TrimSpace(input.DisplayName),
		Role:                 role,
		ClientOrganisationID: tenant,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domerrors.ErrEmailAlreadyRegistered) {
			return nil, domerrors.ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// SeedAdmin creates the first Admin when the user table is empty. It reports whether a user was created.
func SeedAdmin(ctx context.Context, users ports.UserRepository, provision *ProvisionUser, email, password, displayName string) (bool, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := provision.Execute(ctx, ProvisionUserInput{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		Role:        string(domain.RoleAdmin),
	}); err != nil {
		return false, err
	}
	return true, nil
}
