package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

const (
	notificationColumns = `id, user_id, type, message, is_read, related_request_id, related_document_id, event_id, created_at`

	createNotificationSQL = `INSERT INTO notifications (` + notificationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (user_id, event_id) WHERE event_id IS NOT NULL DO NOTHING`
	getNotificationSQL    = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	listNotificationsSQL  = `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 AND (NOT is_read OR $2) ORDER BY created_at DESC`
	markReadSQL           = `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	countUnreadSQL        = `SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read`
	deleteReadBeforeSQL   = `DELETE FROM notifications WHERE is_read AND created_at < $1`
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	var (
		reqID, docID *uuid.UUID
		eventID      *string
	)
	if n.EventID != "" {
		eventID = &n.EventID
	}
	if n.RelatedRequestID != nil {
		reqID = &n.RelatedRequestID.UUID
	}
	if n.RelatedDocumentID != nil {
		docID = &n.RelatedDocumentID.UUID
	}
	_, err := conn(ctx, r.pool).Exec(ctx, createNotificationSQL,
		n.ID.UUID, n.UserID.UUID, string(n.Type), n.Message, n.IsRead, reqID, docID, eventID, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id domain.NotificationID) (*domain.Notification, error) {
	n, err := scanNotification(conn(ctx, r.pool).QueryRow(ctx, getNotificationSQL, id.UUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID domain.UserID, includeRead bool) ([]*domain.Notification, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listNotificationsSQL, userID.UUID, includeRead)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNotification)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domain.NotificationID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, markReadSQL, id.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID domain.UserID) (int, error) {
	return count(ctx, conn(ctx, r.pool), countUnreadSQL, userID.UUID)
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, deleteReadBeforeSQL, before)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var (
		n            domain.Notification
		id, user     uuid.UUID
		typ          string
		reqID, docID *uuid.UUID
		eventID      *string
	)
	if err := row.Scan(&id, &user, &typ, &n.Message, &n.IsRead, &reqID, &docID, &eventID, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.ID = domain.NewNotificationID(id)
	n.UserID = domain.NewUserID(user)
	n.Type = domain.NotificationType(typ)
	if reqID != nil {
		v := domain.NewRequestID(*reqID)
		n.RelatedRequestID = &v
	}
	if docID != nil {
		v := domain.NewDocumentID(*docID)
		n.RelatedDocumentID = &v
	}
	if eventID != nil {
		n.EventID = *eventID
	}
	return &n, nil
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)
