package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/documents"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

// multipartMemory is how much of a multipart form is held in memory before spilling to disk.
const multipartMemory = 8 << 20

// DocumentsHandler serves /api/documents.
type DocumentsHandler struct {
	svc      *documents.Service
	maxBytes int64
	log      zerolog.Logger
}

// NewDocumentsHandler caps uploads at maxBytes.
func NewDocumentsHandler(svc *documents.Service, maxBytes int64, log zerolog.Logger) *DocumentsHandler {
	return &DocumentsHandler{svc: svc, maxBytes: maxBytes, log: log}
}

// Upload handles POST /api/documents (multipart: file, client_organisation_id, category).
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave headroom for the form fields around the file part.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDomainErr(w, r, h.log, domerrors.Invalid("file", "exceeds the maximum upload size"))
			return
		}
		writeDomainErr(w, r, h.log, domerrors.Invalid("", "expected a multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDomainErr(w, r, h.log, domerrors.Invalid("file", "is required"))
		return
	}
	defer file.Close()
	orgID, err := domain.ParseClientOrganisationID(r.FormValue("client_organisation_id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	doc, err := h.svc.Upload(r.Context(), middleware.ClaimsFromContext(r.Context()), documents.UploadInput{
		ClientOrganisationID: orgID,
		FileName:             header.Filename,
		ContentType:          header.Header.Get("Content-Type"),
		Category:             r.FormValue("category"),
		Body:                 file,
	})
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newDocumentResponse(doc))
}

// List handles GET /api/documents?client_organisation_id=.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, err := optionalOrg(r.URL.Query().Get("client_organisation_id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	list, err := h.svc.List(r.Context(), middleware.ClaimsFromContext(r.Context()), tenant)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	out := make([]DocumentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, newDocumentResponse(d))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	doc, err := h.svc.Get(r.Context(), middleware.ClaimsFromContext(r.Context()), id)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newDocumentResponse(doc))
}

// Download handles GET /api/documents/{id}/download and streams the stored file.
func (h *DocumentsHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	doc, rc, err := h.svc.Open(r.Context(), middleware.ClaimsFromContext(r.Context()), id)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn().Err(err).Str("document_id", doc.ID.String()).Msg("download interrupted")
	}
}
