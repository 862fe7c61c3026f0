package clients

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/policy"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

const MaxNameLength = 200

type Input struct {
	Name             string
	PrimaryContactID *domain.UserID
	Address          string
	Timezone         string
}

// Service manages client organisations. Staff and Admin only.
type Service struct {
	orgs  ports.OrganisationRepository
	users ports.UserRepository
	now   func() time.Time
}

func NewService(orgs ports.OrganisationRepository, users ports.UserRepository) *Service {
	return &Service{orgs: orgs, users: users, now: time.Now}
}

func (s *Service) List(ctx context.Context, caller *domain.Claims, includeInactive bool) ([]*domain.ClientOrganisation, error) {
	if !policy.CanManageOrganisations(caller.Role) {
		return nil, domerrors.ErrForbidden
	}
	return s.orgs.List(ctx, includeInactive)
}

func (s *Service) Get(ctx context.Context, caller *domain.Claims, id domain.ClientOrganisationID) (*domain.ClientOrganisation, error) {
	if !policy.CanManageOrganisations(caller.Role) {
		return nil, domerrors.ErrForbidden
	}
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domerrors.ErrNotFound
	}
	return org, nil
}

func (s *Service) Create(ctx context.Context, caller *domain.Claims, in Input) (*domain.ClientOrganisation, error) {
	if !policy.CanManageOrganisations(caller.Role) {
		return nil, domerrors.ErrForbidden
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	org := &domain.ClientOrganisation{
		ID:               domain.NewClientOrganisationID(uuid.New()),
		Name:             in.Name,
		PrimaryContactID: in.PrimaryContactID,
		Address:          in.Address,
		Timezone:         in.Timezone,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) Update(ctx context.Context, caller *domain.Claims, id domain.ClientOrganisationID, in Input) (*domain.ClientOrganisation, error) {
	org, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	org.Name = in.Name
	org.PrimaryContactID = in.PrimaryContactID
	org.Address = in.Address
	org.Timezone = in.Timezone
	org.UpdatedAt = s.now().UTC()
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Deactivate is a soft delete; the organisation and its data remain.
func (s *Service) Deactivate(ctx context.Context, caller *domain.Claims, id domain.ClientOrganisationID) error {
	org, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	org.IsActive = false
	org.UpdatedAt = s.now().UTC()
	return s.orgs.Update(ctx, org)
}

func (s *Service) validate(ctx context.Context, in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Timezone = strings.TrimSpace(in.Timezone)
	if in.Name == "" || utf8.RuneCountInString(in.Name) > MaxNameLength {
		return domerrors.Invalid("name", "must be between 1 and 200 characters")
	}
	if in.Timezone == "" {
		in.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(in.Timezone); err != nil {
		return domerrors.Invalid("timezone", "must be an IANA time zone")
	}
	if in.PrimaryContactID != nil {
		u, err := s.users.GetByID(ctx, *in.PrimaryContactID)
		if err != nil {
			return err
		}
		if u == nil {
			return domerrors.Invalid("primary_contact_id", "must reference an existing user")
		}
	}
	return nil
}
