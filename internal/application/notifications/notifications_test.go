package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/memory"
)

type world struct {
	users         *memory.UserRepository
	requests      *memory.RequestRepository
	notifications *memory.NotificationRepository
	fanout        *Fanout
	org           domain.ClientOrganisationID
	admin         *domain.User
	staff         *domain.User
	client        *domain.User
	otherClient   *domain.User
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{
		users:         memory.NewUserRepository(),
		requests:      memory.NewRequestRepository(),
		notifications: memory.NewNotificationRepository(),
		org:           domain.NewClientOrganisationID(uuid.New()),
	}
	other := domain.NewClientOrganisationID(uuid.New())
	w.admin = w.addUser(t, "admin@x.com", domain.RoleAdmin, nil)
	w.staff = w.addUser(t, "staff@x.com", domain.RoleStaff, nil)
	w.client = w.addUser(t, "client@x.com", domain.RoleClient, w.org.Ptr())
	w.otherClient = w.addUser(t, "other@x.com", domain.RoleClient, other.Ptr())
	w.fanout = NewFanout(w.users, w.requests, w.notifications, zerolog.Nop())
	return w
}

func (w *world) addUser(t *testing.T, email string, role domain.Role, org *domain.ClientOrganisationID) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:                   domain.NewUserID(uuid.New()),
		Email:                email,
		PasswordHash:         "x",
		DisplayName:          email,
		Role:                 role,
		ClientOrganisationID: org,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := w.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (w *world) addRequest(t *testing.T, creator *domain.User) *domain.Request {
	t.Helper()
	now := time.Now().UTC()
	req := &domain.Request{
		ID:                   domain.NewRequestID(uuid.New()),
		ClientOrganisationID: w.org,
		CreatedByUserID:      creator.ID,
		Title:                "Printer broken",
		Description:          "again",
		Status:               domain.StatusNew,
		Priority:             domain.PriorityHigh,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := w.requests.Create(context.Background(), req); err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func (w *world) inbox(t *testing.T, u *domain.User) []*domain.Notification {
	t.Helper()
	list, err := w.notifications.ListByUser(context.Background(), u.ID, true)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	return list
}

func event(typ domain.EventType, org domain.ClientOrganisationID, actor domain.UserID, req *domain.Request) domain.Event {
	ev := domain.Event{ID: uuid.NewString(), Type: typ, ClientOrganisationID: org, ActorID: actor, Summary: "Printer broken"}
	if req != nil {
		id := req.ID
		ev.RequestID = &id
	}
	return ev
}

func TestFanoutRequestCreatedNotifiesInternalUsers(t *testing.T) {
	w := newWorld(t)
	req := w.addRequest(t, w.client)
	if err := w.fanout.Handle(context.Background(), event(domain.EventRequestCreated, w.org, w.client.ID, req)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	for _, u := range []*domain.User{w.admin, w.staff} {
		got := w.inbox(t, u)
		if len(got) != 1 || got[0].Type != domain.NotificationRequestCreated || got[0].Message != "New request: Printer broken" {
			t.Fatalf("%s inbox = %+v", u.Email, got)
		}
		if got[0].RelatedRequestID == nil || *got[0].RelatedRequestID != req.ID {
			t.Fatal("related request id not set")
		}
	}
	if len(w.inbox(t, w.client)) != 0 {
		t.Fatal("actor notified about own request")
	}
}

func TestFanoutCommentRespectsInternalFlag(t *testing.T) {
	w := newWorld(t)
	req := w.addRequest(t, w.client)
	ctx := context.Background()

	internal := event(domain.EventCommentAdded, w.org, w.staff.ID, req)
	internal.Internal = true
	if err := w.fanout.Handle(ctx, internal); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(w.inbox(t, w.client)) != 0 {
		t.Fatal("client notified about internal comment")
	}
	if len(w.inbox(t, w.admin)) != 1 {
		t.Fatal("admin not notified about internal comment")
	}

	if err := w.fanout.Handle(ctx, event(domain.EventCommentAdded, w.org, w.staff.ID, req)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got := w.inbox(t, w.client); len(got) != 1 || got[0].Type != domain.NotificationCommentAdded {
		t.Fatalf("client inbox = %+v", got)
	}
	if len(w.inbox(t, w.otherClient)) != 0 {
		t.Fatal("other tenant notified")
	}
}

func TestFanoutStatusChangeIncludesInternalCreator(t *testing.T) {
	w := newWorld(t)
	req := w.addRequest(t, w.staff)
	ev := event(domain.EventRequestUpdated, w.org, w.admin.ID, req)
	ev.Summary = string(domain.StatusResolved)
	if err := w.fanout.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got := w.inbox(t, w.staff); len(got) != 1 || got[0].Message != "Request status changed to Resolved" {
		t.Fatalf("creator inbox = %+v", got)
	}
	if len(w.inbox(t, w.client)) != 1 {
		t.Fatal("tenant user not notified")
	}
}

func TestFanoutUnknownEventIgnored(t *testing.T) {
	w := newWorld(t)
	if err := w.fanout.Handle(context.Background(), domain.Event{ID: "x", Type: "portal:unknown"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
}

func TestServiceScopesToOwner(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	svc := NewService(w.notifications)
	n := &domain.Notification{
		ID:        domain.NewNotificationID(uuid.New()),
		UserID:    w.client.ID,
		Type:      domain.NotificationDocumentUploaded,
		Message:   "New document uploaded: a.pdf",
		CreatedAt: time.Now().UTC(),
	}
	if err := w.notifications.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}
	owner := &domain.Claims{Subject: w.client.ID, Role: domain.RoleClient, ClientOrganisationID: w.org.Ptr()}
	stranger := &domain.Claims{Subject: w.admin.ID, Role: domain.RoleAdmin}

	if _, err := svc.Get(ctx, stranger, n.ID); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("stranger Get: expected ErrNotFound, got %v", err)
	}
	if err := svc.MarkRead(ctx, stranger, n.ID); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("stranger MarkRead: expected ErrNotFound, got %v", err)
	}
	if c, _ := svc.UnreadCount(ctx, owner); c != 1 {
		t.Fatalf("unread = %d", c)
	}
	if err := svc.MarkRead(ctx, owner, n.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if c, _ := svc.UnreadCount(ctx, owner); c != 0 {
		t.Fatalf("unread after read = %d", c)
	}
	unread, _ := svc.List(ctx, owner, false)
	all, _ := svc.List(ctx, owner, true)
	if len(unread) != 0 || len(all) != 1 {
		t.Fatalf("list unread=%d all=%d", len(unread), len(all))
	}
}

// failOnce fails the nth Create call once, then delegates.
type failOnce struct {
	*memory.NotificationRepository
	n     int
	calls int
}

var errStoreDown = errors.New("store down")

func (f *failOnce) Create(ctx context.Context, n *domain.Notification) error {
	f.calls++
	if f.calls == f.n {
		return errStoreDown
	}
	return f.NotificationRepository.Create(ctx, n)
}

func TestFanoutRetryDoesNotDuplicate(t *testing.T) {
	w := newWorld(t)
	req := w.addRequest(t, w.client)
	repo := &failOnce{NotificationRepository: w.notifications, n: 2}
	fanout := NewFanout(w.users, w.requests, repo, zerolog.Nop())
	ev := event(domain.EventRequestCreated, w.org, w.client.ID, req)

	if err := fanout.Handle(context.Background(), ev); !errors.Is(err, errStoreDown) {
		t.Fatalf("first attempt: expected errStoreDown, got %v", err)
	}
	if err := fanout.Handle(context.Background(), ev); err != nil {
		t.Fatalf("retry: %v", err)
	}
	for _, u := range []*domain.User{w.admin, w.staff} {
		if got := len(w.inbox(t, u)); got != 1 {
			t.Fatalf("%s has %d notifications, want 1", u.Email, got)
		}
	}
}
