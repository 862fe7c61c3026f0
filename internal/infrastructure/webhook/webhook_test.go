package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

func sampleAudit() ports.AuditEvent {
	return ports.AuditEvent{
		Event:      "user.login",
		UserID:     "2b1f6c38-4b7f-4c1e-9d3a-7f0e3c9a1b22",
		IP:         "10.0.0.1",
		Success:    true,
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestHTTPEmitterPostsJSON(t *testing.T) {
	var got ports.AuditEvent
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithHeader("Authorization", "Bearer x"), WithRateLimit(100, 1))
	if err := e.Emit(context.Background(), sampleAudit()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got.Event != "user.login" || got.UserID == "" || auth != "Bearer x" {
		t.Fatalf("unexpected delivery: %+v auth=%q", got, auth)
	}
}

func TestHTTPEmitterNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPEmitter(srv.URL).Emit(context.Background(), sampleAudit())
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
}

func TestHTTPEmitterRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithRateLimit(0.001, 1))
	if err := e.Emit(context.Background(), sampleAudit()); err != nil {
		t.Fatalf("first Emit: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := e.Emit(ctx, sampleAudit()); err == nil {
		t.Fatal("expected rate limit error")
	}
}

type failingEmitter struct{ calls int }

func (f *failingEmitter) Emit(context.Context, ports.AuditEvent) error {
	f.calls++
	return errors.New("sink down")
}

func TestMultiEmitterAttemptsEverySink(t *testing.T) {
	a, b := &failingEmitter{}, &failingEmitter{}
	m := NewMultiEmitter(a, nil, b)
	if err := m.Emit(context.Background(), sampleAudit()); err == nil {
		t.Fatal("expected joined error")
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("calls = %d, %d", a.calls, b.calls)
	}
	if _, ok := NewMultiEmitter(nil).(*NoopEmitter); !ok {
		t.Fatal("expected NoopEmitter for no sinks")
	}
}

func TestSQLRecorder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	ev := sampleAudit()
	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(ev.Event, ev.UserID, nil, ev.IP, nil, true, nil, ev.OccurredAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewSQLRecorder(db).Emit(context.Background(), ev); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
