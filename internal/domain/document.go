package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type DocumentID struct{ uuid.UUID }

func NewDocumentID(id uuid.UUID) DocumentID { return DocumentID{UUID: id} }

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, domerrors.Invalid("document_id", "must be a UUID")
	}
	return DocumentID{UUID: id}, nil
}

func (d DocumentID) String() string { return d.UUID.String() }

type DocumentCategory string

const (
	CategoryContract DocumentCategory = "Contract"
	CategoryInvoice  DocumentCategory = "Invoice"
	CategoryReport   DocumentCategory = "Report"
	CategoryOther    DocumentCategory = "Other"
)

// ParseDocumentCategory defaults an empty value to Other.
func ParseDocumentCategory(s string) (DocumentCategory, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range []DocumentCategory{CategoryContract, CategoryInvoice, CategoryReport, CategoryOther} {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", domerrors.Invalid("category", "must be one of Contract, Invoice, Report, Other")
}

// Document is metadata for a file held in blob storage.
type Document struct {
	ID                   DocumentID
	ClientOrganisationID ClientOrganisationID
	UploadedByUserID     UserID
	FileName             string
	BlobPath             string
	ContentType          string
	SizeBytes            int64
	Category             DocumentCategory
	VersionNumber        int
	UploadedAt           time.Time
}
