// Package cache is the process-wide fallback cache: one store, constructed
// at startup and passed into every service, mapping a source key to its
// latest payload and expiry. A present entry is served verbatim until it
// expires, whether it holds real or fallback data.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is safe for concurrent use. Every write is a whole-value replacement
// keyed by source name, so writers for different keys never conflict and
// same-key races resolve as last-write-wins.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	entries map[string]entry
}

// New creates an empty store using the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates a store with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:     now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value while now < expiresAt; an expired entry is
// treated as absent. Expired entries are not purged, only superseded on the
// next Set — the key space is small and fixed.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set unconditionally overwrites the entry for key.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

// Get retrieves a typed value from the store. A type mismatch is treated as
// a miss, same as expiry.
func Get[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
