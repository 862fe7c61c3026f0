package ports

import (
	"context"
	"errors"
	"time"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// UserRepository persists users. Emails are stored normalized; Create must reject a
// duplicate email atomically with ErrEmailAlreadyRegistered. Lookups return nil, nil when absent.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error
	ListActiveInternal(ctx context.Context) ([]*domain.User, error)
	ListActiveByOrganisation(ctx context.Context, orgID domain.ClientOrganisationID) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
}

// OrganisationRepository persists client organisations.
type OrganisationRepository interface {
	Create(ctx context.Context, org *domain.ClientOrganisation) error
	GetByID(ctx context.Context, id domain.ClientOrganisationID) (*domain.ClientOrganisation, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.ClientOrganisation, error)
	Update(ctx context.Context, org *domain.ClientOrganisation) error
}

// RequestFilter narrows a request listing. A nil tenant means all tenants.
type RequestFilter struct {
	ClientOrganisationID *domain.ClientOrganisationID
	Status               *domain.RequestStatus
}

// RequestRepository persists support requests.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id domain.RequestID) (*domain.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*domain.Request, error)
	UpdateStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus, at time.Time) error
	Touch(ctx context.Context, id domain.RequestID, at time.Time) error
	CountOpen(ctx context.Context, orgID *domain.ClientOrganisationID) (int, error)
	CountUpdatedSince(ctx context.Context, orgID *domain.ClientOrganisationID, since time.Time) (int, error)
}

// CommentRepository persists request comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.RequestComment) error
	ListByRequest(ctx context.Context, id domain.RequestID) ([]*domain.RequestComment, error)
}

// ErrDuplicateDocumentVersion is returned by DocumentRepository.Create when the
// (organisation, file name, version) triple is already taken.
var ErrDuplicateDocumentVersion = errors.New("document version already exists")

// DocumentRepository persists document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id domain.DocumentID) (*domain.Document, error)
	ListByOrganisation(ctx context.Context, orgID domain.ClientOrganisationID) ([]*domain.Document, error)
	CountUploadedSince(ctx context.Context, orgID *domain.ClientOrganisationID, since time.Time) (int, error)
}

// NotificationRepository persists per-user notifications. Create is a no-op when the
// user already has a notification for the same non-empty EventID.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID domain.UserID, includeRead bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id domain.NotificationID) error
	CountUnread(ctx context.Context, userID domain.UserID) (int, error)
	DeleteReadBefore(ctx context.Context, before time.Time) (int, error)
}

// TxManager runs fn in a single transaction carried by ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
