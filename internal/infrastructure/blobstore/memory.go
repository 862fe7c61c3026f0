package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// MemoryStore holds blobs in process. Used by tests and dev mode.
type MemoryStore struct {
	mu       sync.RWMutex
	blobs    map[string][]byte
	maxBytes int64
}

func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte), maxBytes: maxBytes}
}

func (s *MemoryStore) Put(ctx context.Context, p string, r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := copyLimited(ctx, &buf, r, s.maxBytes)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.blobs[p] = buf.Bytes()
	s.mu.Unlock()
	return n, nil
}

func (s *MemoryStore) Get(_ context.Context, p string) (io.ReadCloser, error) {
	s.mu.RLock()
	b, ok := s.blobs[p]
	s.mu.RUnlock()
	if !ok {
		return nil, domerrors.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *MemoryStore) Delete(_ context.Context, p string) error {
	s.mu.Lock()
	delete(s.blobs, p)
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

var _ ports.BlobStore = (*MemoryStore)(nil)
