package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

// UsersHandler handles PATCH /api/users/{id}. Requires an Admin token.
type UsersHandler struct {
	update   *auth.UpdateUser
	audit    ports.WebhookEmitter
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUsersHandler(update *auth.UpdateUser, audit ports.WebhookEmitter, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{update: update, audit: audit, validate: NewValidator(), log: log}
}

// Update changes role and/or active state. Absent fields are left alone.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.ClaimsFromContext(r.Context())
	id, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	var body struct {
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	user, err := h.update.Execute(r.Context(), caller, auth.UpdateUserInput{UserID: id, Role: body.Role, IsActive: body.IsActive})
	if err != nil {
		AuditEmit(h.log, r, h.audit, AuditUpdate, "", id.String(), false, err.Error())
		writeDomainErr(w, r, h.log, err)
		return
	}
	AuditEmit(h.log, r, h.audit, AuditUpdate, derefString(orgString(user.ClientOrganisationID)), user.ID.String(), true, "")
	writeJSON(w, r, http.StatusOK, newUserResponse(user))
}
