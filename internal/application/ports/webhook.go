package ports

import (
	"context"
	"time"
)

// AuditEvent is a single audit event for logging, storage or webhooks.
type AuditEvent struct {
	Event      string    `json:"event"` // user.login, user.register, user.provision, ...
	UserID     string    `json:"user_id,omitempty"`
	TenantID   string    `json:"tenant_id,omitempty"`
	IP         string    `json:"ip,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Success    bool      `json:"success"`
	Err        string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WebhookEmitter sends audit events to an external endpoint or store.
type WebhookEmitter interface {
	Emit(ctx context.Context, event AuditEvent) error
}
