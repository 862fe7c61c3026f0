package middleware

import (
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// TenantKey is the rate-limit bucket for a caller. Client users share their organisation's
// bucket; Staff and Admin work across tenants, so each gets their own.
func TenantKey(claims *domain.Claims) string {
	switch {
	case claims == nil:
		return ""
	case claims.Role == domain.RoleClient && claims.ClientOrganisationID != nil:
		return "tenant:" + claims.ClientOrganisationID.String()
	default:
		return "user:" + claims.Subject.String()
	}
}
