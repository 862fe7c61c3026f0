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

type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[domain.DocumentID]domain.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{docs: make(map[domain.DocumentID]domain.Document)}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ClientOrganisationID == doc.ClientOrganisationID && d.FileName == doc.FileName && d.VersionNumber == doc.VersionNumber {
			return ports.ErrDuplicateDocumentVersion
		}
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id domain.DocumentID) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DocumentRepository) ListByOrganisation(ctx context.Context, orgID domain.ClientOrganisationID) ([]*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Document
	for _, d := range r.docs {
		if d.ClientOrganisationID == orgID {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *DocumentRepository) CountUploadedSince(ctx context.Context, orgID *domain.ClientOrganisationID, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, d := range r.docs {
		if inTenant(orgID, d.ClientOrganisationID) && !d.UploadedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[domain.NotificationID]domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[domain.NotificationID]domain.Notification)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.EventID != "" {
		for _, existing := range r.items {
			if existing.UserID == n.UserID && existing.EventID == n.EventID {
				return nil
			}
		}
	}
	r.items[n.ID] = *n
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID domain.UserID, includeRead bool) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Notification
	for _, n := range r.items {
		if n.UserID != userID || (n.IsRead && !includeRead) {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domain.NotificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return domerrors.ErrNotFound
	}
	n.IsRead = true
	r.items[id] = n
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID domain.UserID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for id, n := range r.items {
		if n.IsRead && n.CreatedAt.Before(before) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

// TxManager runs fn directly; memory repositories are individually atomic.
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ ports.DocumentRepository     = (*DocumentRepository)(nil)
	_ ports.NotificationRepository = (*NotificationRepository)(nil)
	_ ports.TxManager              = TxManager{}
)
