package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/requests"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

// RequestsHandler serves /api/requests.
type RequestsHandler struct {
	svc      *requests.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewRequestsHandler(svc *requests.Service, log zerolog.Logger) *RequestsHandler {
	return &RequestsHandler{svc: svc, validate: NewValidator(), log: log}
}

// List handles GET /api/requests?client_organisation_id=&status=.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.ClaimsFromContext(r.Context())
	tenant, err := optionalOrg(r.URL.Query().Get("client_organisation_id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	list, err := h.svc.List(r.Context(), caller, tenant, r.URL.Query().Get("status"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	out := make([]RequestResponse, 0, len(list))
	for _, req := range list {
		out = append(out, newRequestResponse(req))
	}
	writeJSON(w, r, http.StatusOK, out)
}

// Create handles POST /api/requests. Client callers may omit the organisation.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.ClaimsFromContext(r.Context())
	var body struct {
		ClientOrganisationID string     `json:"client_organisation_id"`
		Title                string     `json:"title" validate:"required"`
		Description          string     `json:"description" validate:"required"`
		Priority             string     `json:"priority"`
		DueDate              *time.Time `json:"due_date"`
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
	req, err := h.svc.Create(r.Context(), caller, requests.CreateInput{
		ClientOrganisationID: tenant,
		Title:                body.Title,
		Description:          body.Description,
		Priority:             body.Priority,
		DueDate:              body.DueDate,
	})
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newRequestResponse(req))
}

type requestDetailResponse struct {
	RequestResponse
	ClientOrganisationName string            `json:"client_organisation_name"`
	CreatedByUserName      string            `json:"created_by_user_name"`
	CommentCount           int               `json:"comment_count"`
	Comments               []CommentResponse `json:"comments"`
}

// Get handles GET /api/requests/{id}. Requests in other tenants are reported as not found.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	detail, err := h.svc.Get(r.Context(), middleware.ClaimsFromContext(r.Context()), id)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	resp := requestDetailResponse{
		RequestResponse:        newRequestResponse(detail.Request),
		ClientOrganisationName: detail.OrganisationName,
		CreatedByUserName:      detail.UserNames[detail.Request.CreatedByUserID],
		CommentCount:           len(detail.Comments),
		Comments:               make([]CommentResponse, 0, len(detail.Comments)),
	}
	for _, c := range detail.Comments {
		cr := newCommentResponse(c)
		cr.AuthorUserName = detail.UserNames[c.AuthorUserID]
		resp.Comments = append(resp.Comments, cr)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// AddComment handles POST /api/requests/{id}/comments.
func (h *RequestsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	var body struct {
		Message    string `json:"message" validate:"required"`
		IsInternal bool   `json:"is_internal"`
	}
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	c, err := h.svc.AddComment(r.Context(), middleware.ClaimsFromContext(r.Context()), id, body.Message, body.IsInternal)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newCommentResponse(c))
}

// UpdateStatus handles PATCH /api/requests/{id}/status.
func (h *RequestsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	req, err := h.svc.UpdateStatus(r.Context(), middleware.ClaimsFromContext(r.Context()), id, body.Status)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newRequestResponse(req))
}
