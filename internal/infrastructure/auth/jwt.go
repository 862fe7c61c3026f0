package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

const DefaultTokenExpiry = 24 * time.Hour

// TokenService implements ports.TokenService with HS256 and a shared secret.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// Option configures TokenService.
type Option func(*TokenService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *TokenService) { t.now = now }
}

// WithLeeway tolerates clock skew on exp/iat checks.
func WithLeeway(d time.Duration) Option {
	return func(t *TokenService) { t.leeway = d }
}

type portalClaims struct {
	jwt.RegisteredClaims
	Email                string `json:"email"`
	DisplayName          string `json:"display_name"`
	Role                 string `json:"role"`
	ClientOrganisationID string `json:"client_organisation_id,omitempty"`
}

// NewTokenService validates the secret; a weak or missing key is a startup error.
func NewTokenService(secret []byte, issuer, audience string, expiry time.Duration, opts ...Option) (*TokenService, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("token issuer and audience are required")
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	t := &TokenService{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Expiry returns the configured token lifetime.
func (t *TokenService) Expiry() time.Duration { return t.expiry }

func (t *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, domerrors.Invalid("user", "is required")
	}
	now := t.now().UTC()
	expiresAt := now.Add(t.expiry)
	claims := portalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}
	if user.ClientOrganisationID != nil {
		claims.ClientOrganisationID = user.ClientOrganisationID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, expiry, issuer and audience. Every failure is ErrInvalidToken.
func (t *TokenService) Validate(tokenString string) (*domain.Claims, error) {
	if tokenString == "" {
		return nil, domerrors.ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(t.leeway),
		jwt.WithTimeFunc(t.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &portalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrInvalidToken, err)
	}
	pc, ok := token.Claims.(*portalClaims)
	if !ok || !token.Valid {
		return nil, domerrors.ErrInvalidToken
	}
	return toDomainClaims(pc)
}

func toDomainClaims(pc *portalClaims) (*domain.Claims, error) {
	sub, err := uuid.Parse(pc.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domerrors.ErrInvalidToken)
	}
	role, err := domain.ParseRole(pc.Role)
	if err != nil || string(role) != pc.Role {
		return nil, fmt.Errorf("%w: bad role", domerrors.ErrInvalidToken)
	}
	var tenant *domain.ClientOrganisationID
	if pc.ClientOrganisationID != "" {
		id, err := uuid.Parse(pc.ClientOrganisationID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad tenant", domerrors.ErrInvalidToken)
		}
		tenant = domain.NewClientOrganisationID(id).Ptr()
	}
	// A Client is always scoped to a tenant and operators never are.
	if (role == domain.RoleClient) != (tenant != nil) {
		return nil, fmt.Errorf("%w: tenant does not match role", domerrors.ErrInvalidToken)
	}
	c := &domain.Claims{
		Subject:              domain.NewUserID(sub),
		Email:                pc.Email,
		DisplayName:          pc.DisplayName,
		Role:                 role,
		ClientOrganisationID: tenant,
		Issuer:               pc.Issuer,
	}
	if len(pc.Audience) > 0 {
		c.Audience = pc.Audience[0]
	}
	if pc.IssuedAt != nil {
		c.IssuedAt = pc.IssuedAt.Time
	}
	if pc.ExpiresAt != nil {
		c.ExpiresAt = pc.ExpiresAt.Time
	}
	return c, nil
}

var _ ports.TokenService = (*TokenService)(nil)
