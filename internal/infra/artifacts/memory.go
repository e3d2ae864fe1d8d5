package artifacts

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	mimeType  string
	expiresAt time.Time
}

// MemoryStore holds artifacts in process memory with a TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryStore constructs the in-process store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, runID, kind string, data []byte, mimeType string) error {
	exp := time.Time{}
	if s.ttl > 0 {
		exp = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[runID+"/"+kind] = memoryEntry{data: data, mimeType: mimeType, expiresAt: exp}
	s.pruneLocked()
	s.mu.Unlock()
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, runID, kind string) ([]byte, string, error) {
	key := runID + "/" + kind
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(time.Now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, "", ErrNotFound
	}
	return entry.data, entry.mimeType, nil
}

func (s *MemoryStore) pruneLocked() {
	now := time.Now()
	for key, entry := range s.entries {
		if !entry.expiresAt.IsZero() && entry.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
