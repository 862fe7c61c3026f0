package middleware

import (
	"net/http"
	"strings"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// Authenticator validates the bearer token and sets the claims in context (see ClaimsFromContext).
type Authenticator struct {
	tokens ports.TokenService
}

func NewAuthenticator(tokens ports.TokenService) *Authenticator {
	return &Authenticator{tokens: tokens}
}

func (m *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeErr(w, r, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization")
			return
		}
		claims, err := m.tokens.Validate(token)
		if err != nil {
			writeErr(w, r, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// bearerToken extracts the credentials of a Bearer authorization header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireRoles rejects authenticated callers whose role is not listed. Use after Authenticator.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeErr(w, r, http.StatusUnauthorized, "unauthorized", "unauthorized")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeErr(w, r, http.StatusForbidden, "forbidden", "forbidden")
		})
	}
}
