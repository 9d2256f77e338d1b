package pricing

import (
	"sync"
	"time"

	"obracalc-backend/lib/timezone"
)

type cacheEntry struct {
	points    []PricePoint
	expiresAt int64
}

// Cache maps a fingerprint to previously fetched points with a
// time-to-live. It is process-local: a restart is a full cold cache.
// Expired entries are deleted lazily on read and are never served.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: map[string]cacheEntry{},
		ttl:     ttl,
	}
}

func (c *Cache) Get(key string) ([]PricePoint, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if timezone.Now().Unix() >= entry.expiresAt {
		c.mu.Lock()
		// re-check under the write lock, a concurrent Set may have
		// refreshed the entry in the meantime
		entry, ok = c.entries[key]
		if ok && timezone.Now().Unix() >= entry.expiresAt {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.points, true
}

// Set replaces the entry by key with a fresh expiry. Entries are never
// merged.
func (c *Cache) Set(key string, points []PricePoint) {
	expiresAt := timezone.Now().Add(c.ttl).Unix()

	c.mu.Lock()
	c.entries[key] = cacheEntry{
		points:    points,
		expiresAt: expiresAt,
	}
	c.mu.Unlock()
}

// Sweep drops every expired entry. Optional: lazy expiry on Get keeps
// correctness on its own, a periodic sweep only bounds memory.
func (c *Cache) Sweep() {
	now := timezone.Now().Unix()

	c.mu.Lock()
	for key, entry := range c.entries {
		if now >= entry.expiresAt {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
