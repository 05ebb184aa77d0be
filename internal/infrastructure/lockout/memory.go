package lockout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
)

type entry struct {
	failures    int
	lockedUntil time.Time
}

// MemoryStore is an in-memory LoginLockoutStore suitable for single-instance deployment. For multi-instance, use RedisStore.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]*entry
	max      int
	cooldown time.Duration
	now      func() time.Time
}

// NewMemoryStore returns a lockout store with given max attempts and cooldown. maxAttempts 0 = disabled.
func NewMemoryStore(maxAttempts int, cooldown time.Duration) *MemoryStore {
	if cooldown <= 0 {
		cooldown = 15 * time.Minute
	}
	return &MemoryStore{
		data:     make(map[string]*entry),
		max:      maxAttempts,
		cooldown: cooldown,
		now:      time.Now,
	}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MemoryStore) IsLocked(ctx context.Context, email string) (locked bool, retryAfterSeconds int) {
	if s.max <= 0 {
		return false, 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key(email)]
	if !ok {
		return false, 0
	}
	now := s.now()
	if now.Before(e.lockedUntil) {
		return true, retryAfter(e.lockedUntil.Sub(now))
	}
	return false, 0
}

func (s *MemoryStore) RecordFailure(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	k := key(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.data[k]
	if e == nil {
		e = &entry{}
		s.data[k] = e
	}
	now := s.now()
	// A served lock starts a fresh window.
	if !e.lockedUntil.IsZero() && !now.Before(e.lockedUntil) {
		e.failures = 0
		e.lockedUntil = time.Time{}
	}
	e.failures++
	if e.failures >= s.max {
		e.lockedUntil = now.Add(s.cooldown)
	}
}

func (s *MemoryStore) RecordSuccess(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key(email))
}

func retryAfter(d time.Duration) int {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

var _ ports.LoginLockoutStore = (*MemoryStore)(nil)
