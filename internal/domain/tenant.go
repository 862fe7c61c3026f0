package domain

import (
	"time"

	"github.com/google/uuid"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// ClientOrganisationID identifies a tenant.
type ClientOrganisationID struct{ uuid.UUID }

// NewClientOrganisationID creates a new ClientOrganisationID from uuid.
func NewClientOrganisationID(id uuid.UUID) ClientOrganisationID {
	return ClientOrganisationID{UUID: id}
}

// ParseClientOrganisationID parses the canonical string form.
func ParseClientOrganisationID(s string) (ClientOrganisationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ClientOrganisationID{}, domerrors.Invalid("client_organisation_id", "must be a UUID")
	}
	return ClientOrganisationID{UUID: id}, nil
}

// String returns the canonical string form.
func (c ClientOrganisationID) String() string { return c.UUID.String() }

// Ptr returns a pointer to a copy of c.
func (c ClientOrganisationID) Ptr() *ClientOrganisationID { return &c }

// SameTenant reports whether a and b are both set and equal.
func SameTenant(a, b *ClientOrganisationID) bool {
	return a != nil && b != nil && a.UUID == b.UUID
}

// ClientOrganisation is the tenant boundary. Deactivated, never deleted.
type ClientOrganisation struct {
	ID               ClientOrganisationID
	Name             string
	PrimaryContactID *UserID
	Address          string
	Timezone         string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
