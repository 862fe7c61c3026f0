package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/dashboard"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

type DashboardHandler struct {
	svc *dashboard.Service
	log zerolog.Logger
}

func NewDashboardHandler(svc *dashboard.Service, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, log: log}
}

// Stats handles GET /api/dashboard/stats?client_organisation_id=.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tenant, err := optionalOrg(r.URL.Query().Get("client_organisation_id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	stats, err := h.svc.Stats(r.Context(), middleware.ClaimsFromContext(r.Context()), tenant)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
