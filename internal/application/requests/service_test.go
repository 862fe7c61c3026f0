package requests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	svc      *Service
	requests *memory.RequestRepository
	users    *memory.UserRepository
	events   *recordingPublisher
	orgA     domain.ClientOrganisationID
	orgB     domain.ClientOrganisationID
	staff    *domain.Claims
	clientA  *domain.Claims
	clientB  *domain.Claims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	orgs := memory.NewOrganisationRepository()
	f := &fixture{
		requests: memory.NewRequestRepository(),
		users:    memory.NewUserRepository(),
		events:   &recordingPublisher{},
		orgA:     domain.NewClientOrganisationID(uuid.New()),
		orgB:     domain.NewClientOrganisationID(uuid.New()),
	}
	for _, id := range []domain.ClientOrganisationID{f.orgA, f.orgB} {
		if err := orgs.Create(ctx, &domain.ClientOrganisation{ID: id, Name: "Org " + id.String()[:8], Timezone: "UTC", IsActive: true}); err != nil {
			t.Fatalf("create org: %v", err)
		}
	}
	f.svc = NewService(f.requests, memory.NewCommentRepository(), orgs, f.users, memory.TxManager{}, f.events, zerolog.Nop())
	f.staff = &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleStaff}
	f.clientA = &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleClient, ClientOrganisationID: f.orgA.Ptr()}
	f.clientB = &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleClient, ClientOrganisationID: f.orgB.Ptr()}
	return f
}

func (f *fixture) create(t *testing.T, caller *domain.Claims, title string) *domain.Request {
	t.Helper()
	req, err := f.svc.Create(context.Background(), caller, CreateInput{Title: title, Description: "details"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return req
}

func TestCreateUsesCallerTenantForClient(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.Create(context.Background(), f.clientA, CreateInput{
		ClientOrganisationID: f.orgB.Ptr(),
		Title:                "VPN down",
		Description:          "cannot connect",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.ClientOrganisationID != f.orgA {
		t.Fatalf("client request filed against %s, want own tenant", req.ClientOrganisationID)
	}
	if req.Status != domain.StatusNew || req.Priority != domain.PriorityMedium {
		t.Fatalf("defaults: status=%s priority=%s", req.Status, req.Priority)
	}
	if len(f.events.events) != 1 || f.events.events[0].Type != domain.EventRequestCreated {
		t.Fatalf("events = %+v", f.events.events)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	cases := []struct {
		name   string
		caller *domain.Claims
		in     CreateInput
	}{
		{"staff without org", f.staff, CreateInput{Title: "t", Description: "d"}},
		{"staff unknown org", f.staff, CreateInput{ClientOrganisationID: domain.NewClientOrganisationID(uuid.New()).Ptr(), Title: "t", Description: "d"}},
		{"empty title", f.clientA, CreateInput{Title: "  ", Description: "d"}},
		{"empty description", f.clientA, CreateInput{Title: "t"}},
		{"bad priority", f.clientA, CreateInput{Title: "t", Description: "d", Priority: "Urgent"}},
		{"due date in past", f.clientA, CreateInput{Title: "t", Description: "d", DueDate: &past}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, tc.caller, tc.in); !errors.Is(err, domerrors.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestListIsTenantScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, f.clientA, "a1")
	f.create(t, f.clientA, "a2")
	f.create(t, f.clientB, "b1")

	got, err := f.svc.List(ctx, f.clientA, f.orgB.Ptr(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("client A sees %d requests, want 2", len(got))
	}
	for _, r := range got {
		if r.ClientOrganisationID != f.orgA {
			t.Fatalf("client A saw tenant %s", r.ClientOrganisationID)
		}
	}

	all, err := f.svc.List(ctx, f.staff, nil, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("staff list = %d, %v", len(all), err)
	}
	onlyB, err := f.svc.List(ctx, f.staff, f.orgB.Ptr(), "new")
	if err != nil || len(onlyB) != 1 {
		t.Fatalf("staff filtered list = %d, %v", len(onlyB), err)
	}
	if _, err := f.svc.List(ctx, f.staff, nil, "bogus"); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("bad status: %v", err)
	}
}

func TestGetHidesForeignAndInternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, f.clientA, "a1")

	if _, err := f.svc.Get(ctx, f.clientB, req.ID); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("foreign tenant: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.AddComment(ctx, f.staff, req.ID, "internal note", true); err != nil {
		t.Fatalf("staff internal comment: %v", err)
	}
	if _, err := f.svc.AddComment(ctx, f.clientA, req.ID, "public", false); err != nil {
		t.Fatalf("client comment: %v", err)
	}

	clientView, err := f.svc.Get(ctx, f.clientA, req.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(clientView.Comments) != 1 || clientView.Comments[0].IsInternal {
		t.Fatalf("client sees %d comments", len(clientView.Comments))
	}
	staffView, err := f.svc.Get(ctx, f.staff, req.ID)
	if err != nil || len(staffView.Comments) != 2 {
		t.Fatalf("staff view = %v, %v", staffView, err)
	}
}

func TestAddCommentDowngradesClientInternalFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, f.clientA, "a1")
	before, _ := f.requests.GetByID(ctx, req.ID)

	f.svc.now = func() time.Time { return before.UpdatedAt.Add(time.Minute) }
	c, err := f.svc.AddComment(ctx, f.clientA, req.ID, "please hide", true)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if c.IsInternal {
		t.Fatal("client comment stored as internal")
	}
	after, _ := f.requests.GetByID(ctx, req.ID)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatal("request updated_at not bumped")
	}
	if _, err := f.svc.AddComment(ctx, f.clientB, req.ID, "hi", false); !errors.Is(err, domerrors.ErrForbidden) {
		t.Fatalf("foreign comment: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.AddComment(ctx, f.clientA, domain.NewRequestID(uuid.New()), "hi", false); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("missing request: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.AddComment(ctx, f.clientA, req.ID, "", false); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("empty message: expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.create(t, f.clientA, "a1")

	if _, err := f.svc.UpdateStatus(ctx, f.clientA, req.ID, "Resolved"); !errors.Is(err, domerrors.ErrForbidden) {
		t.Fatalf("client status change: expected ErrForbidden, got %v", err)
	}
	got, err := f.svc.UpdateStatus(ctx, f.staff, req.ID, "inprogress")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != domain.StatusInProgress {
		t.Fatalf("status = %s", got.Status)
	}
	last := f.events.events[len(f.events.events)-1]
	if last.Type != domain.EventRequestUpdated || last.Summary != "InProgress" {
		t.Fatalf("last event = %+v", last)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.staff, domain.NewRequestID(uuid.New()), "Closed"); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("missing request: expected ErrNotFound, got %v", err)
	}
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("redis down")
	if _, err := f.svc.Create(context.Background(), f.clientA, CreateInput{Title: "t", Description: "d"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestGetIncludesDisplayNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, u := range []*domain.User{
		{ID: f.clientA.Subject, Email: "alice@acme.test", DisplayName: "Alice", Role: domain.RoleClient, ClientOrganisationID: f.orgA.Ptr(), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: f.staff.Subject, Email: "sam@helix.test", DisplayName: "Sam", Role: domain.RoleStaff, IsActive: true, CreatedAt: now, UpdatedAt: now},
	} {
		if err := f.users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	req := f.create(t, f.clientA, "a1")
	if _, err := f.svc.AddComment(ctx, f.staff, req.ID, "on it", false); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	detail, err := f.svc.Get(ctx, f.clientA, req.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.OrganisationName != "Org "+f.orgA.String()[:8] {
		t.Fatalf("organisation name = %q", detail.OrganisationName)
	}
	if detail.UserNames[f.clientA.Subject] != "Alice" || detail.UserNames[f.staff.Subject] != "Sam" {
		t.Fatalf("user names = %v", detail.UserNames)
	}
}
