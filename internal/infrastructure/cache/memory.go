package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/metrics"
)

type memoryEntry struct {
	videos    []model.Video
	expiresAt time.Time
}

// MemorySearchCache is an in-process SearchCache.
// Expired entries are dropped lazily on read; there is no background sweep.
type MemorySearchCache struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemorySearchCache creates an empty in-process cache.
func NewMemorySearchCache() *MemorySearchCache {
	return NewMemorySearchCacheWithClock(time.Now)
}

// NewMemorySearchCacheWithClock creates an in-process cache that reads time from now.
func NewMemorySearchCacheWithClock(now func() time.Time) *MemorySearchCache {
	return &MemorySearchCache{
		items: make(map[string]memoryEntry),
		now:   now,
	}
}

// Get returns the cached results for key unless the entry has expired.
func (c *MemorySearchCache) Get(_ context.Context, key string) ([]model.Video, bool, error) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		metrics.RecordCacheOp(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeMemory)
		return nil, false, nil
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := c.items[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		metrics.RecordCacheOp(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeMemory)
		return nil, false, nil
	}

	metrics.RecordCacheOp(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeMemory)
	return cloneVideos(entry.videos), true, nil
}

// Set stores a copy of videos under key until now+ttl.
// Get also hands out copies, so callers never share the stored slice.
func (c *MemorySearchCache) Set(_ context.Context, key string, videos []model.Video, ttl time.Duration) error {
	c.mu.Lock()
	c.items[key] = memoryEntry{videos: cloneVideos(videos), expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()

	metrics.RecordCacheOp(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeMemory)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemorySearchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

var _ SearchCache = (*MemorySearchCache)(nil)

func cloneVideos(videos []model.Video) []model.Video {
	out := make([]model.Video, len(videos))
	copy(out, videos)
	return out
}
