package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/blobstore"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/memory"
)

type countingPublisher struct{ events []domain.Event }

func (p *countingPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.events = append(p.events, ev)
	return nil
}

type fixture struct {
	svc    *Service
	orgs   *memory.OrganisationRepository
	blobs  *blobstore.MemoryStore
	events *countingPublisher
	orgA   domain.ClientOrganisationID
	orgB   domain.ClientOrganisationID
	staff  *domain.Claims
	client *domain.Claims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	orgs := memory.NewOrganisationRepository()
	f := &fixture{
		orgs:   orgs,
		blobs:  blobstore.NewMemoryStore(1 << 20),
		events: &countingPublisher{},
		orgA:   domain.NewClientOrganisationID(uuid.New()),
		orgB:   domain.NewClientOrganisationID(uuid.New()),
	}
	for _, id := range []domain.ClientOrganisationID{f.orgA, f.orgB} {
		if err := orgs.Create(context.Background(), &domain.ClientOrganisation{ID: id, Name: id.String(), IsActive: true}); err != nil {
			t.Fatalf("create org: %v", err)
		}
	}
	f.svc = NewService(memory.NewDocumentRepository(), orgs, f.blobs, f.events, zerolog.Nop())
	f.staff = &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleStaff}
	f.client = &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleClient, ClientOrganisationID: f.orgA.Ptr()}
	return f
}

func (f *fixture) upload(t *testing.T, org domain.ClientOrganisationID, name, body string) *domain.Document {
	t.Helper()
	doc, err := f.svc.Upload(context.Background(), f.staff, UploadInput{
		ClientOrganisationID: org,
		FileName:             name,
		ContentType:          "application/pdf",
		Category:             "invoice",
		Body:                 strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return doc
}

func TestUploadStoresBlobAndMetadata(t *testing.T) {
	f := newFixture(t)
	doc := f.upload(t, f.orgA, "C:\\scans\\march.pdf", "pdf-bytes")
	if doc.FileName != "march.pdf" || doc.SizeBytes != 9 || doc.Category != domain.CategoryInvoice || doc.VersionNumber != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if !strings.HasPrefix(doc.BlobPath, f.orgA.String()+"/") {
		t.Fatalf("blob path %q not under tenant", doc.BlobPath)
	}
	if len(f.events.events) != 1 || f.events.events[0].Type != domain.EventDocumentUploaded {
		t.Fatalf("events = %+v", f.events.events)
	}
	again := f.upload(t, f.orgA, "march.pdf", "v2")
	if again.VersionNumber != 2 {
		t.Fatalf("re-upload version = %d", again.VersionNumber)
	}
}

func TestUploadRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := UploadInput{ClientOrganisationID: f.orgA, FileName: "a.txt", Body: strings.NewReader("x")}
	if _, err := f.svc.Upload(ctx, f.client, in); !errors.Is(err, domerrors.ErrForbidden) {
		t.Fatalf("client upload: expected ErrForbidden, got %v", err)
	}
	in.FileName = ".."
	if _, err := f.svc.Upload(ctx, f.staff, in); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("bad name: expected ErrInvalidInput, got %v", err)
	}
	in.FileName = "a.txt"
	in.ClientOrganisationID = domain.NewClientOrganisationID(uuid.New())
	if _, err := f.svc.Upload(ctx, f.staff, in); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("unknown org: expected ErrInvalidInput, got %v", err)
	}
	if f.blobs.Len() != 0 {
		t.Fatalf("rejected uploads left %d blobs", f.blobs.Len())
	}
}

func TestListAndDownloadAreTenantScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.upload(t, f.orgA, "mine.pdf", "mine")
	theirs := f.upload(t, f.orgB, "theirs.pdf", "theirs")

	list, err := f.svc.List(ctx, f.client, f.orgB.Ptr())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("client list = %+v", list)
	}
	if _, err := f.svc.List(ctx, f.staff, nil); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("staff without org: expected ErrInvalidInput, got %v", err)
	}

	if _, _, err := f.svc.Open(ctx, f.client, theirs.ID); !errors.Is(err, domerrors.ErrForbidden) {
		t.Fatalf("foreign download: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Get(ctx, f.client, domain.NewDocumentID(uuid.New())); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
	doc, rc, err := f.svc.Open(ctx, f.client, mine.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "mine" || doc.FileName != "mine.pdf" {
		t.Fatalf("downloaded %q (%s)", body, doc.FileName)
	}
}

// racingDocs lets a competing upload claim the computed version just before the first insert.
type racingDocs struct {
	*memory.DocumentRepository
	raced bool
}

func (r *racingDocs) Create(ctx context.Context, doc *domain.Document) error {
	if !r.raced {
		r.raced = true
		rival := *doc
		rival.ID = domain.NewDocumentID(uuid.New())
		if err := r.DocumentRepository.Create(ctx, &rival); err != nil {
			return err
		}
	}
	return r.DocumentRepository.Create(ctx, doc)
}

func TestUploadRetriesTakenVersion(t *testing.T) {
	f := newFixture(t)
	docs := &racingDocs{DocumentRepository: memory.NewDocumentRepository()}
	f.svc = NewService(docs, f.orgs, f.blobs, f.events, zerolog.Nop())

	doc := f.upload(t, f.orgA, "report.pdf", "body")
	if doc.VersionNumber != 2 {
		t.Fatalf("version = %d, want 2 after losing version 1", doc.VersionNumber)
	}
	list, err := docs.ListByOrganisation(context.Background(), f.orgA)
	if err != nil {
		t.Fatalf("ListByOrganisation: %v", err)
	}
	seen := map[int]bool{}
	for _, d := range list {
		if seen[d.VersionNumber] {
			t.Fatalf("duplicate version %d", d.VersionNumber)
		}
		seen[d.VersionNumber] = true
	}
	if len(list) != 2 {
		t.Fatalf("documents = %d, want 2", len(list))
	}
}
