package domain

import (
	"time"

	"github.com/google/uuid"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type NotificationID struct{ uuid.UUID }

func NewNotificationID(id uuid.UUID) NotificationID { return NotificationID{UUID: id} }

func ParseNotificationID(s string) (NotificationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NotificationID{}, domerrors.Invalid("notification_id", "must be a UUID")
	}
	return NotificationID{UUID: id}, nil
}

func (n NotificationID) String() string { return n.UUID.String() }

type NotificationType string

const (
	NotificationRequestCreated   NotificationType = "RequestCreated"
	NotificationRequestUpdated   NotificationType = "RequestUpdated"
	NotificationDocumentUploaded NotificationType = "DocumentUploaded"
	NotificationCommentAdded     NotificationType = "CommentAdded"
)

// Notification is owned by a single user and only ever visible to that user.
type Notification struct {
	ID                NotificationID
	UserID            UserID
	Type              NotificationType
	Message           string
	IsRead            bool
	RelatedRequestID  *RequestID
	RelatedDocumentID *DocumentID
	// EventID is the event that produced the notification; empty for ad hoc notifications.
	EventID   string
	CreatedAt time.Time
}
