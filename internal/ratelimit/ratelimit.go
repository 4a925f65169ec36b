// Package ratelimit provides rolling-window request throttling and login
// lockout tracking. Counters live behind the Store interface so the in-memory
// default can be swapped for a shared backing store without touching call
// sites.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists event timestamps per key.
type Store interface {
	// Add records an event for the key.
	Add(key string, ts time.Time)
	// CountSince returns how many recorded events for the key are at or
	// after cutoff. Implementations may discard older entries.
	CountSince(key string, cutoff time.Time) int
	// Newest returns the most recent event for the key, or the zero time.
	Newest(key string) time.Time
	// Reset discards all events for the key.
	Reset(key string)
}

// memoryStore is the process-local default Store.
type memoryStore struct {
	mu     sync.Mutex
	events map[string][]time.Time
}

// NewMemoryStore returns an in-memory, mutex-guarded Store.
func NewMemoryStore() Store {
	return &memoryStore{events: make(map[string][]time.Time)}
}

func (s *memoryStore) Add(key string, ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[key] = append(s.events[key], ts)
}

func (s *memoryStore) CountSince(key string, cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[key][:0]
	for _, ts := range s.events[key] {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(s.events, key)
		return 0
	}
	s.events[key] = kept
	return len(kept)
}

func (s *memoryStore) Newest(key string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newest time.Time
	for _, ts := range s.events[key] {
		if ts.After(newest) {
			newest = ts
		}
	}
	return newest
}

func (s *memoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, key)
}

// Limiter enforces at most Limit requests per Window per key.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time // test seam
}

// NewLimiter creates a Limiter backed by the given store.
func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Key builds the throttling key for a (user, endpoint) pair.
func Key(userID uuid.UUID, endpoint string) string {
	return fmt.Sprintf("%s_%s", userID, endpoint)
}

// Allow reports whether the key may issue another request and, if so, records
// it. Excess requests are rejected, never queued or delayed.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	if l.store.CountSince(key, now.Add(-l.window)) >= l.limit {
		return false
	}
	l.store.Add(key, now)
	return true
}
