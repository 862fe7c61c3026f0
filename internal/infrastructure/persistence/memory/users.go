// Package memory provides mutex-guarded in-process repositories for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// UserRepository keeps users keyed by id with a secondary lowercased-email index.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]*domain.User
	byEmail map[string]domain.UserID
	writes  int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]domain.UserID),
	}
}

// Create checks and inserts under one lock so concurrent duplicates cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	key := domain.NormalizeEmail(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[key]; taken {
		return domerrors.ErrEmailAlreadyRegistered
	}
	cp := *user
	cp.Email = key
	r.byID[user.ID] = &cp
	r.byEmail[key] = user.ID
	r.writes++
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return copyUser(r.byID[id]), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyUser(r.byID[id]), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[user.ID]
	if !ok {
		return domerrors.ErrNotFound
	}
	cp := *user
	cp.Email = existing.Email
	r.byID[user.ID] = &cp
	r.writes++
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domerrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.writes++
	return nil
}

func (r *UserRepository) ListActiveInternal(ctx context.Context) ([]*domain.User, error) {
	return r.filter(func(u *domain.User) bool { return u.IsActive && u.Role.Internal() }), nil
}

func (r *UserRepository) ListActiveByOrganisation(ctx context.Context, orgID domain.ClientOrganisationID) ([]*domain.User, error) {
	return r.filter(func(u *domain.User) bool {
		return u.IsActive && u.ClientOrganisationID != nil && *u.ClientOrganisationID == orgID
	}), nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// Writes returns the number of successful mutations, for tests asserting write counts.
func (r *UserRepository) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}

func (r *UserRepository) filter(keep func(*domain.User) bool) []*domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.User
	for _, u := range r.byID {
		if keep(u) {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.ClientOrganisationID != nil {
		cp.ClientOrganisationID = u.ClientOrganisationID.Ptr()
	}
	return &cp
}

var _ ports.UserRepository = (*UserRepository)(nil)
