package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/clients"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

// ClientsHandler serves /api/clients (client organisations). Staff and Admin only.
type ClientsHandler struct {
	svc      *clients.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewClientsHandler(svc *clients.Service, log zerolog.Logger) *ClientsHandler {
	return &ClientsHandler{svc: svc, validate: NewValidator(), log: log}
}

type organisationBody struct {
	Name             string `json:"name" validate:"required,max=200"`
	PrimaryContactID string `json:"primary_contact_id"`
	Address          string `json:"address" validate:"max=500"`
	Timezone         string `json:"timezone"`
}

func (b organisationBody) input() (clients.Input, error) {
	in := clients.Input{Name: b.Name, Address: b.Address, Timezone: b.Timezone}
	if b.PrimaryContactID != "" {
		id, err := domain.ParseUserID(b.PrimaryContactID)
		if err != nil {
			return clients.Input{}, err
		}
		in.PrimaryContactID = &id
	}
	return in, nil
}

// List handles GET /api/clients?include_inactive=true.
func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))
	list, err := h.svc.List(r.Context(), middleware.ClaimsFromContext(r.Context()), includeInactive)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	out := make([]OrganisationResponse, 0, len(list))
	for _, o := range list {
		out = append(out, newOrganisationResponse(o))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *ClientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseClientOrganisationID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	org, err := h.svc.Get(r.Context(), middleware.ClaimsFromContext(r.Context()), id)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newOrganisationResponse(org))
}

func (h *ClientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body organisationBody
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	in, err := body.input()
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	org, err := h.svc.Create(r.Context(), middleware.ClaimsFromContext(r.Context()), in)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newOrganisationResponse(org))
}

// Update handles PUT /api/clients/{id} (full replacement of the editable fields).
func (h *ClientsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseClientOrganisationID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	var body organisationBody
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	in, err := body.input()
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	org, err := h.svc.Update(r.Context(), middleware.ClaimsFromContext(r.Context()), id, in)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newOrganisationResponse(org))
}

// Deactivate handles DELETE /api/clients/{id}. The organisation is kept but marked inactive.
func (h *ClientsHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseClientOrganisationID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	if err := h.svc.Deactivate(r.Context(), middleware.ClaimsFromContext(r.Context()), id); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
