package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedSnapshot is a fetched snapshot with its build time.
type cachedSnapshot struct {
	snapshot *Snapshot
	built    time.Time
}

// SnapshotCache keeps fetched snapshots in memory for a TTL.
// Concurrent fetches for the same key are collapsed into one.
type SnapshotCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedSnapshot
	sf      singleflight.Group
	now     func() time.Time
}

// NewSnapshotCache creates a cache. A zero TTL disables retention but still
// deduplicates concurrent fetches.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]cachedSnapshot),
		now:     time.Now,
	}
}

// CacheKey returns the cache key of a provider account.
func CacheKey(provider Provider, account string) string {
	return string(provider) + "|" + account
}

func (c *SnapshotCache) isExpired(e cachedSnapshot) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(e.built) > c.ttl
}

// GetOrFetch returns the cached snapshot for key, or calls fetch when it is
// missing or expired. Failed fetches are not cached.
func (c *SnapshotCache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (*Snapshot, error)) (*Snapshot, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !c.isExpired(entry) {
		return entry.snapshot, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && !c.isExpired(entry) {
			return entry.snapshot, nil
		}

		snap, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[key] = cachedSnapshot{snapshot: snap, built: c.now()}
			c.mu.Unlock()
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

// Invalidate drops the cached snapshot for key.
func (c *SnapshotCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
