package lockout

import (
	"context"
	"sync"
	"time"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

// entry counts failures within one cooldown of firstFailure. Older counts are discarded.
type entry struct {
	failures     int
	firstFailure time.Time
	lockedUntil  time.Time
}

func (e *entry) expired(now time.Time, cooldown time.Duration) bool {
	if !e.lockedUntil.IsZero() {
		return !now.Before(e.lockedUntil)
	}
	return !now.Before(e.firstFailure.Add(cooldown))
}

// MemoryStore is an in-memory LoginLockoutStore suitable for single-instance deployment. For multi-instance, use RedisStore.
type MemoryStore struct {
	mu        sync.RWMutex
	data      map[string]*entry
	max       int
	cooldown  time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore returns a lockout store with given max attempts and cooldown. maxAttempts 0 = disabled.
func NewMemoryStore(maxAttempts, cooldownSeconds int) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]*entry),
		max:      maxAttempts,
		cooldown: cooldownOrDefault(cooldownSeconds),
		now:      time.Now,
	}
}

func cooldownOrDefault(seconds int) time.Duration {
	cd := time.Duration(seconds) * time.Second
	if cd <= 0 {
		cd = 15 * time.Minute
	}
	return cd
}

func (s *MemoryStore) IsLocked(ctx context.Context, email string) (locked bool, retryAfterSeconds int) {
	if s.max <= 0 {
		return false, 0
	}
	s.mu.RLock()
	e, ok := s.data[email]
	var until time.Time
	if ok {
		until = e.lockedUntil
	}
	s.mu.RUnlock()
	now := s.now()
	if !ok || !now.Before(until) {
		return false, 0
	}
	secs := int(until.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return true, secs
}

func (s *MemoryStore) RecordFailure(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	e := s.data[email]
	if e == nil || e.expired(now, s.cooldown) {
		e = &entry{firstFailure: now}
		s.data[email] = e
	}
	e.failures++
	if e.failures >= s.max {
		e.lockedUntil = now.Add(s.cooldown)
	}
}

// sweep drops expired entries at most once per cooldown. Caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.cooldown {
		return
	}
	s.lastSweep = now
	for email, e := range s.data {
		if e.expired(now, s.cooldown) {
			delete(s.data, email)
		}
	}
}

func (s *MemoryStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) RecordSuccess(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, email)
}

var _ ports.LoginLockoutStore = (*MemoryStore)(nil)
