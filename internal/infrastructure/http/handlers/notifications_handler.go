package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/notifications"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

// NotificationsHandler serves the caller's own notifications under /api/notifications.
type NotificationsHandler struct {
	svc *notifications.Service
	log zerolog.Logger
}

func NewNotificationsHandler(svc *notifications.Service, log zerolog.Logger) *NotificationsHandler {
	return &NotificationsHandler{svc: svc, log: log}
}

// List returns unread notifications unless include_read=true.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	includeRead, _ := strconv.ParseBool(r.URL.Query().Get("include_read"))
	list, err := h.svc.List(r.Context(), middleware.ClaimsFromContext(r.Context()), includeRead)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, newNotificationResponse(n))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *NotificationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	n, err := h.svc.Get(r.Context(), middleware.ClaimsFromContext(r.Context()), id)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newNotificationResponse(n))
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	if err := h.svc.MarkRead(r.Context(), middleware.ClaimsFromContext(r.Context()), id); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context(), middleware.ClaimsFromContext(r.Context()))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"count": n})
}
