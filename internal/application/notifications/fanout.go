package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// Fanout turns domain events into per-user notifications.
type Fanout struct {
	users         ports.UserRepository
	requests      ports.RequestRepository
	notifications ports.NotificationRepository
	log           zerolog.Logger
	now           func() time.Time
}

func NewFanout(users ports.UserRepository, requests ports.RequestRepository, notifications ports.NotificationRepository, log zerolog.Logger) *Fanout {
	return &Fanout{
		users:         users,
		requests:      requests,
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

// Handle implements ports.EventHandler. Notifications are keyed by event id, so a retried
// event does not notify a recipient twice.
func (f *Fanout) Handle(ctx context.Context, ev domain.Event) error {
	var (
		recipients []*domain.User
		typ        domain.NotificationType
		message    string
		err        error
	)
	switch ev.Type {
	case domain.EventRequestCreated:
		typ = domain.NotificationRequestCreated
		message = fmt.Sprintf("New request: %s", ev.Summary)
		recipients, err = f.users.ListActiveInternal(ctx)
	case domain.EventRequestUpdated:
		typ = domain.NotificationRequestUpdated
		message = fmt.Sprintf("Request status changed to %s", ev.Summary)
		recipients, err = f.requestAudience(ctx, ev, false)
	case domain.EventCommentAdded:
		typ = domain.NotificationCommentAdded
		message = fmt.Sprintf("New comment on request: %s", ev.Summary)
		recipients, err = f.requestAudience(ctx, ev, ev.Internal)
	case domain.EventDocumentUploaded:
		typ = domain.NotificationDocumentUploaded
		message = fmt.Sprintf("New document uploaded: %s", ev.Summary)
		recipients, err = f.users.ListActiveByOrganisation(ctx, ev.ClientOrganisationID)
	default:
		f.log.Warn().Str("type", string(ev.Type)).Str("event_id", ev.ID).Msg("unknown event type")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve recipients for %s: %w", ev.Type, err)
	}
	created := 0
	for _, u := range recipients {
		if u.ID == ev.ActorID {
			continue
		}
		n := &domain.Notification{
			ID:                domain.NewNotificationID(uuid.New()),
			UserID:            u.ID,
			Type:              typ,
			Message:           message,
			RelatedRequestID:  ev.RequestID,
			RelatedDocumentID: ev.DocumentID,
			EventID:           ev.ID,
			CreatedAt:         f.now().UTC(),
		}
		if err := f.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		created++
	}
	f.log.Debug().Str("event_id", ev.ID).Str("type", string(ev.Type)).Int("notifications", created).Msg("event fanned out")
	return nil
}

// requestAudience is the request's organisation users plus its creator. Internal comments
// only reach Staff and Admin.
func (f *Fanout) requestAudience(ctx context.Context, ev domain.Event, internalOnly bool) ([]*domain.User, error) {
	if internalOnly {
		return f.users.ListActiveInternal(ctx)
	}
	users, err := f.users.ListActiveByOrganisation(ctx, ev.ClientOrganisationID)
	if err != nil {
		return nil, err
	}
	if ev.RequestID == nil {
		return users, nil
	}
	req, err := f.requests.GetByID(ctx, *ev.RequestID)
	if err != nil || req == nil {
		return users, err
	}
	for _, u := range users {
		if u.ID == req.CreatedByUserID {
			return users, nil
		}
	}
	creator, err := f.users.GetByID(ctx, req.CreatedByUserID)
	if err != nil {
		return nil, err
	}
	if creator != nil && creator.IsActive {
		users = append(users, creator)
	}
	return users, nil
}

var _ ports.EventHandler = (*Fanout)(nil)
