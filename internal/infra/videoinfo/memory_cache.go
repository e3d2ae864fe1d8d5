package videoinfo

import (
	"context"
	"sync"
	"time"

	domain "github.com/piotr-ziolo/SummarizeIt/internal/domain/videoinfo"
	"github.com/piotr-ziolo/SummarizeIt/internal/infra/youtube"
)

type cachedDetails struct {
	payload   youtube.VideoDetails
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the details cache for
// tests/dev and as the fallback when valkey is unavailable.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedDetails
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cachedDetails)}
}

// Get implements videoinfo.Cache.
func (c *MemoryCache) Get(_ context.Context, videoID string) (youtube.VideoDetails, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[videoID]
	c.mu.RUnlock()
	if !ok {
		return youtube.VideoDetails{}, false, nil
	}
	if hasExpired(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, videoID)
		c.mu.Unlock()
		return youtube.VideoDetails{}, false, nil
	}
	return entry.payload, true, nil
}

// Set caches details with optional TTL.
func (c *MemoryCache) Set(_ context.Context, videoID string, details youtube.VideoDetails, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[videoID] = cachedDetails{payload: details, expiresAt: exp}
	c.mu.Unlock()
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ domain.Cache = (*MemoryCache)(nil)
