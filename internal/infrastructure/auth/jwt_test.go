package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newService(t *testing.T, opts ...Option) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, "HelixPortal", "HelixPortal", time.Hour, opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func clientUser() *domain.User {
	tenant := domain.NewClientOrganisationID(uuid.New())
	return &domain.User{
		ID:                   domain.NewUserID(uuid.New()),
		Email:                "client@acme.test",
		DisplayName:          "Acme Client",
		Role:                 domain.RoleClient,
		ClientOrganisationID: &tenant,
		IsActive:             true,
	}
}

func TestIssueValidateClient(t *testing.T) {
	svc := newService(t)
	u := clientUser()
	token, expiresAt, err := svc.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Role != domain.RoleClient {
		t.Fatalf("role = %s", claims.Role)
	}
	if claims.ClientOrganisationID == nil || *claims.ClientOrganisationID != *u.ClientOrganisationID {
		t.Fatalf("tenant = %v, want %v", claims.ClientOrganisationID, u.ClientOrganisationID)
	}
	if claims.Subject != u.ID || claims.Email != u.Email || claims.DisplayName != u.DisplayName {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.Issuer != "HelixPortal" || claims.Audience != "HelixPortal" {
		t.Fatalf("unexpected iss/aud: %s/%s", claims.Issuer, claims.Audience)
	}
}

func TestIssueValidateStaffHasNoTenant(t *testing.T) {
	svc := newService(t)
	u := &domain.User{ID: domain.NewUserID(uuid.New()), Email: "a@x.com", Role: domain.RoleStaff}
	token, _, err := svc.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Role != domain.RoleStaff || claims.ClientOrganisationID != nil {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	now := time.Now()
	issuer := newService(t, WithClock(func() time.Time { return now.Add(-2 * time.Hour) }))
	token, _, err := issuer.Issue(clientUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	validator := newService(t, WithClock(func() time.Time { return now }))
	if _, err := validator.Validate(token); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := validator.Validate(token); !errors.Is(err, domerrors.ErrUnauthorized) {
		t.Fatalf("expired token should be unauthorized, got %v", err)
	}
}

func TestForeignSecretRejected(t *testing.T) {
	other, err := NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), "HelixPortal", "HelixPortal", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, _, _ := other.Issue(clientUser())
	if _, err := newService(t).Validate(token); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestWrongIssuerOrAudienceRejected(t *testing.T) {
	for _, tc := range []struct{ iss, aud string }{{"Other", "HelixPortal"}, {"HelixPortal", "Other"}} {
		other, err := NewTokenService(testSecret, tc.iss, tc.aud, time.Hour)
		if err != nil {
			t.Fatalf("NewTokenService: %v", err)
		}
		token, _, _ := other.Issue(clientUser())
		if _, err := newService(t).Validate(token); !errors.Is(err, domerrors.ErrInvalidToken) {
			t.Fatalf("iss=%s aud=%s: expected ErrInvalidToken, got %v", tc.iss, tc.aud, err)
		}
	}
}

func TestOtherAlgorithmsRejected(t *testing.T) {
	now := time.Now()
	claims := portalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "HelixPortal",
			Audience:  jwt.ClaimStrings{"HelixPortal"},
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: "Staff",
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	svc := newService(t)
	for _, tok := range []string{hs512, none} {
		if _, err := svc.Validate(tok); !errors.Is(err, domerrors.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	}
}

func TestRoleTenantMismatchRejected(t *testing.T) {
	svc := newService(t)
	u := clientUser()
	u.ClientOrganisationID = nil
	token, _, _ := svc.Issue(u)
	if _, err := svc.Validate(token); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Fatalf("client without tenant: expected ErrInvalidToken, got %v", err)
	}
	s := clientUser()
	s.Role = domain.RoleStaff
	token, _, _ = svc.Issue(s)
	if _, err := svc.Validate(token); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Fatalf("staff with tenant: expected ErrInvalidToken, got %v", err)
	}
}

func TestGarbageTokens(t *testing.T) {
	svc := newService(t)
	for _, tok := range []string{"", "abc", "a.b.c", strings.Repeat("x", 500)} {
		if _, err := svc.Validate(tok); !errors.Is(err, domerrors.ErrInvalidToken) {
			t.Errorf("Validate(%q) = %v", tok, err)
		}
	}
}

func TestNewTokenServiceRejectsWeakSecret(t *testing.T) {
	if _, err := NewTokenService(nil, "i", "a", time.Hour); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewTokenService([]byte("short"), "i", "a", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
	if _, err := NewTokenService(testSecret, "", "a", time.Hour); err == nil {
		t.Fatal("expected error for missing issuer")
	}
}

func TestExpiryIsConfigurable(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, err := NewTokenService(testSecret, "i", "a", 7*24*time.Hour, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	_, exp, _ := svc.Issue(clientUser())
	if !exp.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Fatalf("expiry = %v", exp)
	}
	def, _ := NewTokenService(testSecret, "i", "a", 0)
	if def.Expiry() != DefaultTokenExpiry {
		t.Fatalf("default expiry = %v", def.Expiry())
	}
}

func TestLoadSecret(t *testing.T) {
	b, err := LoadSecret("inline-secret", "")
	if err != nil || string(b) != "inline-secret" {
		t.Fatalf("inline: %q, %v", b, err)
	}
	p := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(p, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	b, err = LoadSecret("", p)
	if err != nil || string(b) != "file-secret" {
		t.Fatalf("file: %q, %v", b, err)
	}
	if _, err := LoadSecret("", ""); err == nil {
		t.Fatal("expected error when nothing configured")
	}
}
