// Package policy holds the pure tenant and role decisions applied to every
// tenant-scoped operation. Nothing here performs I/O.
package policy

import (
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// CanViewResource reports whether the caller may see a resource owned by resourceTenant.
// Admin and Staff see every tenant; a Client only its own.
func CanViewResource(role domain.Role, callerTenant *domain.ClientOrganisationID, resourceTenant domain.ClientOrganisationID) bool {
	if role.Internal() {
		return true
	}
	if role != domain.RoleClient {
		return false
	}
	return domain.SameTenant(callerTenant, &resourceTenant)
}

// CanMutateStatus reports whether the role may change a request's status.
func CanMutateStatus(role domain.Role) bool {
	return role.Internal()
}

// CanPostInternalComment reports whether the role may post staff-only comments.
func CanPostInternalComment(role domain.Role) bool {
	return role.Internal()
}

// EffectiveInternalFlag returns the internal flag actually stored for a comment.
// A Client asking for an internal comment is downgraded to a public one, not rejected.
func EffectiveInternalFlag(role domain.Role, requested bool) bool {
	return requested && CanPostInternalComment(role)
}

// CanViewComment hides internal comments from Clients.
func CanViewComment(role domain.Role, isInternal bool) bool {
	return !isInternal || role.Internal()
}

// EffectiveTenantFilter returns the tenant a listing must be restricted to; nil means all tenants.
// For a Client the caller's own tenant always wins over the requested one.
func EffectiveTenantFilter(role domain.Role, callerTenant, requested *domain.ClientOrganisationID) (*domain.ClientOrganisationID, error) {
	switch {
	case role.Internal():
		if requested == nil {
			return nil, nil
		}
		return requested.Ptr(), nil
	case role == domain.RoleClient:
		if callerTenant == nil {
			return nil, domerrors.ErrForbidden
		}
		return callerTenant.Ptr(), nil
	}
	return nil, domerrors.ErrForbidden
}

// CanRegisterRole reports whether the self-service registration flow may create the role.
// Client accounts go through provisioning instead.
func CanRegisterRole(requested domain.Role) bool {
	return requested.Internal()
}

// CanManageOrganisations covers client organisation CRUD.
func CanManageOrganisations(role domain.Role) bool {
	return role.Internal()
}

// CanUploadDocuments covers document uploads.
func CanUploadDocuments(role domain.Role) bool {
	return role.Internal()
}

// CanManageUsers covers role changes and deactivation.
func CanManageUsers(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanAccessNotification allows only the owner.
func CanAccessNotification(caller, owner domain.UserID) bool {
	return caller == owner
}
