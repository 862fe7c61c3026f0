package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/policy"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/ids"
)

const (
	MaxFileNameLength  = 255
	maxVersionAttempts = 5
)

type UploadInput struct {
	ClientOrganisationID domain.ClientOrganisationID
	FileName             string
	ContentType          string
	Category             string
	Body                 io.Reader
}

type Service struct {
	docs   ports.DocumentRepository
	orgs   ports.OrganisationRepository
	blobs  ports.BlobStore
	events ports.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(docs ports.DocumentRepository, orgs ports.OrganisationRepository, blobs ports.BlobStore, events ports.EventPublisher, log zerolog.Logger) *Service {
	return &Service{docs: docs, orgs: orgs, blobs: blobs, events: events, log: log, now: time.Now}
}

// Upload stores the blob then its metadata. A re-upload of the same file name gets the next version number.
func (s *Service) Upload(ctx context.Context, caller *domain.Claims, in UploadInput) (*domain.Document, error) {
	if !policy.CanUploadDocuments(caller.Role) {
		return nil, domerrors.ErrForbidden
	}
	name, err := cleanFileName(in.FileName)
	if err != nil {
		return nil, err
	}
	category, err := domain.ParseDocumentCategory(in.Category)
	if err != nil {
		return nil, err
	}
	org, err := s.orgs.GetByID(ctx, in.ClientOrganisationID)
	if err != nil {
		return nil, err
	}
	if org == nil || !org.IsActive {
		return nil, domerrors.Invalid("client_organisation_id", "must reference an active organisation")
	}
	id := domain.NewDocumentID(uuid.New())
	blobPath := path.Join(org.ID.String(), id.String()+"_"+name)
	size, err := s.blobs.Put(ctx, blobPath, in.Body)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	doc := &domain.Document{
		ID:                   id,
		ClientOrganisationID: org.ID,
		UploadedByUserID:     caller.Subject,
		FileName:             name,
		BlobPath:             blobPath,
		ContentType:          contentType,
		SizeBytes:            size,
		Category:             category,
		UploadedAt:           s.now().UTC(),
	}
	if err := s.insertNextVersion(ctx, doc); err != nil {
		if derr := s.blobs.Delete(ctx, blobPath); derr != nil {
			s.log.Warn().Err(derr).Str("blob_path", blobPath).Msg("orphaned blob cleanup failed")
		}
		return nil, fmt.Errorf("create document: %w", err)
	}
	s.publish(ctx, caller, doc)
	return doc, nil
}

// insertNextVersion numbers doc one above the highest existing version of its file name.
// A concurrent upload that claims the same number makes the insert fail, and it is retried.
func (s *Service) insertNextVersion(ctx context.Context, doc *domain.Document) error {
	var err error
	for attempt := 0; attempt < maxVersionAttempts; attempt++ {
		existing, lerr := s.docs.ListByOrganisation(ctx, doc.ClientOrganisationID)
		if lerr != nil {
			return lerr
		}
		doc.VersionNumber = 1
		for _, d := range existing {
			if d.FileName == doc.FileName && d.VersionNumber >= doc.VersionNumber {
				doc.VersionNumber = d.VersionNumber + 1
			}
		}
		err = s.docs.Create(ctx, doc)
		if !errors.Is(err, ports.ErrDuplicateDocumentVersion) {
			return err
		}
	}
	return err
}

// List requires an organisation for Staff and Admin; a Client always gets its own.
func (s *Service) List(ctx context.Context, caller *domain.Claims, requested *domain.ClientOrganisationID) ([]*domain.Document, error) {
	tenant, err := policy.EffectiveTenantFilter(caller.Role, caller.ClientOrganisationID, requested)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domerrors.Invalid("client_organisation_id", "is required")
	}
	return s.docs.ListByOrganisation(ctx, *tenant)
}

func (s *Service) Get(ctx context.Context, caller *domain.Claims, id domain.DocumentID) (*domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domerrors.ErrNotFound
	}
	if !policy.CanViewResource(caller.Role, caller.ClientOrganisationID, doc.ClientOrganisationID) {
		return nil, domerrors.ErrForbidden
	}
	return doc, nil
}

// Open returns the document and a reader over its contents. The caller closes the reader.
func (s *Service) Open(ctx context.Context, caller *domain.Claims, id domain.DocumentID) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, doc.BlobPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}
	return doc, rc, nil
}

func (s *Service) publish(ctx context.Context, caller *domain.Claims, doc *domain.Document) {
	if s.events == nil {
		return
	}
	docID := doc.ID
	ev := domain.Event{
		ID:                   ids.NewEventID(),
		Type:                 domain.EventDocumentUploaded,
		ClientOrganisationID: doc.ClientOrganisationID,
		ActorID:              caller.Subject,
		DocumentID:           &docID,
		Summary:              doc.FileName,
		OccurredAt:           doc.UploadedAt,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("document_id", doc.ID.String()).Msg("publish event failed")
	}
}

func cleanFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = path.Base(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", domerrors.Invalid("file_name", "is required")
	}
	if len(name) > MaxFileNameLength {
		return "", domerrors.Invalid("file_name", "must not exceed 255 bytes")
	}
	return name, nil
}
