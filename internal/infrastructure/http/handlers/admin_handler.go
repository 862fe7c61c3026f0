package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

// AdminHandler handles /admin/* (user provisioning). Requires X-Portal-Admin-Secret.
type AdminHandler struct {
	provision *auth.ProvisionUser
	audit     ports.WebhookEmitter
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(provision *auth.ProvisionUser, audit ports.WebhookEmitter, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		provision: provision,
		audit:     audit,
		validate:  NewValidator(),
		log:       log,
	}
}

// ProvisionUser handles POST /admin/users. Any role may be created, including Client users
// bound to an organisation.
func (h *AdminHandler) ProvisionUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email                string `json:"email" validate:"required,max=256"`
		Password             string `json:"password" validate:"required,password_strength"`
		DisplayName          string `json:"display_name" validate:"required,max=100"`
		Role                 string `json:"role" validate:"required"`
		ClientOrganisationID string `json:"client_organisation_id"`
	}
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	tenant, err := optionalOrg(body.ClientOrganisationID)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	user, err := h.provision.Execute(r.Context(), auth.ProvisionUserInput{
		Email:                body.Email,
		Password:             body.Password,
		DisplayName:          body.DisplayName,
		Role:                 body.Role,
		ClientOrganisationID: tenant,
	})
	if err != nil {
		AuditEmit(h.log, r, h.audit, AuditProvision, body.ClientOrganisationID, "", false, err.Error())
		writeDomainErr(w, r, h.log, err)
		return
	}
	AuditEmit(h.log, r, h.audit, AuditProvision, derefString(orgString(user.ClientOrganisationID)), user.ID.String(), true, "")
	writeJSON(w, r, http.StatusCreated, newUserResponse(user))
}
