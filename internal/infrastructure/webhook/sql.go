package webhook

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

const insertAuditEvent = `INSERT INTO audit_events (event, user_id, tenant_id, ip, request_id, success, error, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// SQLRecorder appends audit events to the audit_events table.
type SQLRecorder struct {
	db *sql.DB
}

func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

func (r *SQLRecorder) Emit(ctx context.Context, e ports.AuditEvent) error {
	_, err := r.db.ExecContext(ctx, insertAuditEvent,
		e.Event, nullString(e.UserID), nullString(e.TenantID), nullString(e.IP), nullString(e.RequestID),
		e.Success, nullString(e.Err), e.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ ports.WebhookEmitter = (*SQLRecorder)(nil)
