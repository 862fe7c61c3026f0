package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type RequestRepository struct {
	mu       sync.RWMutex
	requests map[domain.RequestID]domain.Request
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{requests: make(map[domain.RequestID]domain.Request)}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = *req
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id domain.RequestID) (*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *RequestRepository) List(ctx context.Context, filter ports.RequestFilter) ([]*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Request
	for _, req := range r.requests {
		if filter.ClientOrganisationID != nil && req.ClientOrganisationID != *filter.ClientOrganisationID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		req := req
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domerrors.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = at
	r.requests[id] = req
	return nil
}

func (r *RequestRepository) Touch(ctx context.Context, id domain.RequestID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domerrors.ErrNotFound
	}
	req.UpdatedAt = at
	r.requests[id] = req
	return nil
}

func (r *RequestRepository) CountOpen(ctx context.Context, orgID *domain.ClientOrganisationID) (int, error) {
	return r.count(func(req domain.Request) bool {
		return inTenant(orgID, req.ClientOrganisationID) && req.Status.Open()
	}), nil
}

func (r *RequestRepository) CountUpdatedSince(ctx context.Context, orgID *domain.ClientOrganisationID, since time.Time) (int, error) {
	return r.count(func(req domain.Request) bool {
		return inTenant(orgID, req.ClientOrganisationID) && !req.UpdatedAt.Before(since)
	}), nil
}

func (r *RequestRepository) count(match func(domain.Request) bool) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, req := range r.requests {
		if match(req) {
			n++
		}
	}
	return n
}

func inTenant(filter *domain.ClientOrganisationID, id domain.ClientOrganisationID) bool {
	return filter == nil || *filter == id
}

type CommentRepository struct {
	mu       sync.RWMutex
	comments []domain.RequestComment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.RequestComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *c)
	return nil
}

func (r *CommentRepository) ListByRequest(ctx context.Context, id domain.RequestID) ([]*domain.RequestComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.RequestComment
	for _, c := range r.comments {
		if c.RequestID == id {
			c := c
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var (
	_ ports.RequestRepository = (*RequestRepository)(nil)
	_ ports.CommentRepository = (*CommentRepository)(nil)
)
