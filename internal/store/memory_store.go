package store

import (
	"context"
	"sync"
	"time"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// memoryStore implements Store in process memory. It backs the CLI and tests.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   clock.Clock
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(c clock.Clock) Store {
	if c == nil {
		c = clock.System{}
	}
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		clock:   c,
	}
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	now := s.clock.Now()
	if !entry.expired(now) {
		return entry.value, nil
	}

	// The key may have been rewritten since the read lock was released.
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	if current.expired(now) {
		delete(s.entries, key)
		return "", ErrNotFound
	}
	return current.value, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Health(ctx context.Context) error {
	return ctx.Err()
}

func (s *memoryStore) Close() error {
	return nil
}
