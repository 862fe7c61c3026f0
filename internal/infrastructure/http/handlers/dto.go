package handlers

import (
	"time"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// AuthResponse is the JSON shape for login and registration.
type AuthResponse struct {
	Token                string    `json:"token"`
	ExpiresAt            time.Time `json:"expires_at"`
	UserID               string    `json:"user_id"`
	Email                string    `json:"email"`
	DisplayName          string    `json:"display_name"`
	Role                 string    `json:"role"`
	ClientOrganisationID *string   `json:"client_organisation_id,omitempty"`
}

func newAuthResponse(res *auth.AuthResult) AuthResponse {
	return AuthResponse{
		Token:                res.Token,
		ExpiresAt:            res.ExpiresAt,
		UserID:               res.User.ID.String(),
		Email:                res.User.Email,
		DisplayName:          res.User.DisplayName,
		Role:                 string(res.User.Role),
		ClientOrganisationID: orgString(res.User.ClientOrganisationID),
	}
}

// UserResponse is a user profile. The password hash never leaves the service.
type UserResponse struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	DisplayName          string    `json:"display_name"`
	Role                 string    `json:"role"`
	ClientOrganisationID *string   `json:"client_organisation_id,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                   u.ID.String(),
		Email:                u.Email,
		DisplayName:          u.DisplayName,
		Role:                 string(u.Role),
		ClientOrganisationID: orgString(u.ClientOrganisationID),
		IsActive:             u.IsActive,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

type RequestResponse struct {
	ID                   string     `json:"id"`
	ClientOrganisationID string     `json:"client_organisation_id"`
	CreatedByUserID      string     `json:"created_by_user_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Status               string     `json:"status"`
	Priority             string     `json:"priority"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func newRequestResponse(req *domain.Request) RequestResponse {
	return RequestResponse{
		ID:                   req.ID.String(),
		ClientOrganisationID: req.ClientOrganisationID.String(),
		CreatedByUserID:      req.CreatedByUserID.String(),
		Title:                req.Title,
		Description:          req.Description,
		Status:               string(req.Status),
		Priority:             string(req.Priority),
		DueDate:              req.DueDate,
		CreatedAt:            req.CreatedAt,
		UpdatedAt:            req.UpdatedAt,
	}
}

type CommentResponse struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"request_id"`
	AuthorUserID   string    `json:"author_user_id"`
	AuthorUserName string    `json:"author_user_name,omitempty"`
	Message        string    `json:"message"`
	IsInternal     bool      `json:"is_internal"`
	CreatedAt      time.Time `json:"created_at"`
}

func newCommentResponse(c *domain.RequestComment) CommentResponse {
	return CommentResponse{
		ID:           c.ID.String(),
		RequestID:    c.RequestID.String(),
		AuthorUserID: c.AuthorUserID.String(),
		Message:      c.Message,
		IsInternal:   c.IsInternal,
		CreatedAt:    c.CreatedAt,
	}
}

type DocumentResponse struct {
	ID                   string    `json:"id"`
	ClientOrganisationID string    `json:"client_organisation_id"`
	UploadedByUserID     string    `json:"uploaded_by_user_id"`
	FileName             string    `json:"file_name"`
	ContentType          string    `json:"content_type"`
	SizeBytes            int64     `json:"size_bytes"`
	Category             string    `json:"category"`
	VersionNumber        int       `json:"version_number"`
	UploadedAt           time.Time `json:"uploaded_at"`
}

func newDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:                   d.ID.String(),
		ClientOrganisationID: d.ClientOrganisationID.String(),
		UploadedByUserID:     d.UploadedByUserID.String(),
		FileName:             d.FileName,
		ContentType:          d.ContentType,
		SizeBytes:            d.SizeBytes,
		Category:             string(d.Category),
		VersionNumber:        d.VersionNumber,
		UploadedAt:           d.UploadedAt,
	}
}

type OrganisationResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	PrimaryContactID *string   `json:"primary_contact_id,omitempty"`
	Address          string    `json:"address,omitempty"`
	Timezone         string    `json:"timezone"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newOrganisationResponse(o *domain.ClientOrganisation) OrganisationResponse {
	resp := OrganisationResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Address:   o.Address,
		Timezone:  o.Timezone,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.PrimaryContactID != nil {
		s := o.PrimaryContactID.String()
		resp.PrimaryContactID = &s
	}
	return resp
}

type NotificationResponse struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedRequestID  *string   `json:"related_request_id,omitempty"`
	RelatedDocumentID *string   `json:"related_document_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func newNotificationResponse(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedRequestID != nil {
		s := n.RelatedRequestID.String()
		resp.RelatedRequestID = &s
	}
	if n.RelatedDocumentID != nil {
		s := n.RelatedDocumentID.String()
		resp.RelatedDocumentID = &s
	}
	return resp
}

func orgString(id *domain.ClientOrganisationID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// optionalOrg parses an optional organisation id from a query value or body field.
func optionalOrg(s string) (*domain.ClientOrganisationID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := domain.ParseClientOrganisationID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
