// Package session implements secondary.SessionStore in memory and on Redis.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/example/quitplan/internal/ports/secondary"
)

type memoryEntry struct {
	record    secondary.RatingSessionRecord
	expiresAt time.Time
}

// MemoryStore is a process-local SessionStore. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns the stored state, or nil, nil on a miss or after expiry.
func (s *MemoryStore) Get(ctx context.Context, key string) (*secondary.RatingSessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}

	record := entry.record
	return &record, nil
}

// Put stores a copy of record under key. A ttl <= 0 never expires.
func (s *MemoryStore) Put(ctx context.Context, key string, record *secondary.RatingSessionRecord, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{record: *record}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

// Ensure MemoryStore implements the interface
var _ secondary.SessionStore = (*MemoryStore)(nil)
