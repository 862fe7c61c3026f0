package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"Admin", RoleAdmin, true},
		{"staff", RoleStaff, true},
		{" CLIENT ", RoleClient, true},
		{"owner", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, domerrors.ErrInvalidInput) {
			t.Errorf("ParseRole(%q) err = %v; want ErrInvalidInput", tt.in, err)
		}
	}
}

func TestRoleInternal(t *testing.T) {
	if !RoleAdmin.Internal() || !RoleStaff.Internal() {
		t.Error("Admin and Staff should be internal")
	}
	if RoleClient.Internal() {
		t.Error("Client should not be internal")
	}
}

func TestParseRequestStatus(t *testing.T) {
	st, err := ParseRequestStatus("inprogress")
	if err != nil || st != StatusInProgress {
		t.Fatalf("got %q, %v", st, err)
	}
	if _, err := ParseRequestStatus("Done"); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if StatusResolved.Open() || StatusClosed.Open() || !StatusWaitingOnClient.Open() {
		t.Error("unexpected Open() result")
	}
}

func TestParseDocumentCategoryDefaultsToOther(t *testing.T) {
	c, err := ParseDocumentCategory("")
	if err != nil || c != CategoryOther {
		t.Fatalf("got %q, %v", c, err)
	}
	if _, err := ParseDocumentCategory("Photo"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestSameTenant(t *testing.T) {
	a := NewClientOrganisationID(uuid.New())
	b := NewClientOrganisationID(uuid.New())
	if !SameTenant(a.Ptr(), a.Ptr()) {
		t.Error("same id should match")
	}
	if SameTenant(a.Ptr(), b.Ptr()) || SameTenant(nil, a.Ptr()) || SameTenant(nil, nil) {
		t.Error("different or missing ids should not match")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@X.Com "); got != "a@x.com" {
		t.Errorf("got %q", got)
	}
}

func TestEventJSONUsesCanonicalIDs(t *testing.T) {
	req := NewRequestID(uuid.New())
	ev := Event{
		ID:                   "01HZY",
		Type:                 EventRequestCreated,
		ClientOrganisationID: NewClientOrganisationID(uuid.New()),
		ActorID:              NewUserID(uuid.New()),
		RequestID:            &req,
		OccurredAt:           time.Now().UTC(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Event
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.RequestID == nil || *back.RequestID != req {
		t.Fatalf("request id lost: %s", b)
	}
	if back.ClientOrganisationID != ev.ClientOrganisationID {
		t.Fatalf("tenant id lost: %s", b)
	}
}
