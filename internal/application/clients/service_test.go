package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/memory"
)

func TestOrganisationLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewOrganisationRepository(), memory.NewUserRepository())
	staff := &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleStaff}

	org, err := svc.Create(ctx, staff, Input{Name: "  Acme Ltd ", Timezone: "Europe/London"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if org.Name != "Acme Ltd" || !org.IsActive {
		t.Fatalf("unexpected org: %+v", org)
	}

	updated, err := svc.Update(ctx, staff, org.ID, Input{Name: "Acme Group", Address: "1 High St"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Acme Group" || updated.Timezone != "UTC" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if err := svc.Deactivate(ctx, staff, org.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	active, _ := svc.List(ctx, staff, false)
	all, _ := svc.List(ctx, staff, true)
	if len(active) != 0 || len(all) != 1 || all[0].IsActive {
		t.Fatalf("active=%d all=%d", len(active), len(all))
	}
}

func TestOrganisationRules(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewOrganisationRepository(), memory.NewUserRepository())
	admin := &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleAdmin}
	org := domain.NewClientOrganisationID(uuid.New())
	client := &domain.Claims{Subject: domain.NewUserID(uuid.New()), Role: domain.RoleClient, ClientOrganisationID: &org}

	if _, err := svc.List(ctx, client, false); !errors.Is(err, domerrors.ErrForbidden) {
		t.Fatalf("client list: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, client, Input{Name: "x"}); !errors.Is(err, domerrors.ErrForbidden) {
		t.Fatalf("client create: expected ErrForbidden, got %v", err)
	}
	cases := []Input{
		{Name: ""},
		{Name: "x", Timezone: "Mars/Olympus"},
		{Name: "x", PrimaryContactID: func() *domain.UserID { id := domain.NewUserID(uuid.New()); return &id }()},
	}
	for i, in := range cases {
		if _, err := svc.Create(ctx, admin, in); !errors.Is(err, domerrors.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if _, err := svc.Get(ctx, admin, domain.NewClientOrganisationID(uuid.New())); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
}
