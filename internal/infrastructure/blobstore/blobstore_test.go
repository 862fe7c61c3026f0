package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

func exercise(t *testing.T, s ports.BlobStore) {
	t.Helper()
	ctx := context.Background()
	n, err := s.Put(ctx, "org/doc_a.txt", strings.NewReader("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Put = %d, %v", n, err)
	}
	rc, err := s.Get(ctx, "org/doc_a.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "hello" {
		t.Fatalf("content = %q", b)
	}
	if _, err := s.Put(ctx, "org/big.bin", strings.NewReader(strings.Repeat("x", 11))); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("oversized: expected ErrInvalidInput, got %v", err)
	}
	if err := s.Delete(ctx, "org/doc_a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "org/doc_a.txt"); !errors.Is(err, domerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "org/doc_a.txt"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore(10))
}

func TestFSStore(t *testing.T) {
	s, err := NewFSStore(t.TempDir(), 10)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	exercise(t, s)
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	s, err := NewFSStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if _, err := s.Put(context.Background(), "../escape.txt", strings.NewReader("x")); !errors.Is(err, domerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
