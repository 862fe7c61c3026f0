package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// ParseUserID parses the canonical string form.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, domerrors.Invalid("user_id", "must be a UUID")
	}
	return UserID{UUID: id}, nil
}

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// Role is the portal role of a user.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleStaff  Role = "Staff"
	RoleClient Role = "Client"
)

// ParseRole accepts any casing and returns the canonical role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "staff":
		return RoleStaff, nil
	case "client":
		return RoleClient, nil
	}
	return "", domerrors.Invalid("role", "must be one of Admin, Staff, Client")
}

// Internal reports whether the role belongs to the portal operator (Admin or Staff).
func (r Role) Internal() bool { return r == RoleAdmin || r == RoleStaff }

func (r Role) String() string { return string(r) }

// User is a portal account. Client users carry the organisation they belong to.
type User struct {
	ID                   UserID
	Email                string
	PasswordHash         string
	DisplayName          string
	Role                 Role
	ClientOrganisationID *ClientOrganisationID
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NormalizeEmail trims and lowercases an email address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
