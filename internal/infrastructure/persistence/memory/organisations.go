package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type OrganisationRepository struct {
	mu   sync.RWMutex
	orgs map[domain.ClientOrganisationID]domain.ClientOrganisation
}

func NewOrganisationRepository() *OrganisationRepository {
	return &OrganisationRepository{orgs: make(map[domain.ClientOrganisationID]domain.ClientOrganisation)}
}

func (r *OrganisationRepository) Create(ctx context.Context, org *domain.ClientOrganisation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orgs[org.ID] = *org
	return nil
}

func (r *OrganisationRepository) GetByID(ctx context.Context, id domain.ClientOrganisationID) (*domain.ClientOrganisation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OrganisationRepository) List(ctx context.Context, includeInactive bool) ([]*domain.ClientOrganisation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.ClientOrganisation, 0, len(r.orgs))
	for _, o := range r.orgs {
		if !o.IsActive && !includeInactive {
			continue
		}
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *OrganisationRepository) Update(ctx context.Context, org *domain.ClientOrganisation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[org.ID]; !ok {
		return domerrors.ErrNotFound
	}
	r.orgs[org.ID] = *org
	return nil
}

var _ ports.OrganisationRepository = (*OrganisationRepository)(nil)
