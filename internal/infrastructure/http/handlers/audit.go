package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

// Audit event names.
const (
	AuditLogin     = "user.login"
	AuditRegister  = "user.register"
	AuditProvision = "user.provision"
	AuditUpdate    = "user.update"
)

// AuditLog logs auth events (tenant_id, user_id, IP).
func AuditLog(log zerolog.Logger, r *http.Request, event string, tenantID, userID string, success bool, errMsg string) {
	ev := log.Info()
	if !success {
		ev = log.Warn()
	}
	ev.
		Str("event", event).
		Str("tenant_id", tenantID).
		Str("user_id", userID).
		Str("ip", clientIP(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", success)
	if errMsg != "" {
		ev.Str("error", errMsg)
	}
	ev.Msg("auth_audit")
}

// AuditEmit logs the event and, if emitter is non-nil, hands it to the audit sinks.
// A sink failure is logged and never changes the response.
func AuditEmit(log zerolog.Logger, r *http.Request, emitter ports.WebhookEmitter, event, tenantID, userID string, success bool, errMsg string) {
	AuditLog(log, r, event, tenantID, userID, success, errMsg)
	if emitter == nil {
		return
	}
	err := emitter.Emit(r.Context(), ports.AuditEvent{
		Event:      event,
		UserID:     userID,
		TenantID:   tenantID,
		IP:         clientIP(r),
		RequestID:  middleware.GetReqID(r.Context()),
		Success:    success,
		Err:        errMsg,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("audit emit failed")
	}
}

// clientIP relies on chi's RealIP middleware having already applied X-Forwarded-For.
func clientIP(r *http.Request) string {
	return r.RemoteAddr
}
