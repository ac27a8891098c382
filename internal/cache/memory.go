package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-memory store whose inactive entries expire after a
// fixed period since their last read. Pinned entries never expire.
type MemoryCache[V any] struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache[V any](inactiveTTL time.Duration, cleanupInterval time.Duration) *MemoryCache[V] {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryCache[V]{
		cache: gocache.New(inactiveTTL, cleanupInterval),
	}
}

// Get retrieves a value and restarts its inactivity timer
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touch(key)
}

// GetOrCreate returns the existing value for key, storing create() when absent
func (c *MemoryCache[V]) GetOrCreate(key string, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if val, found := c.touch(key); found {
		return val
	}

	val := create()
	c.cache.Set(key, val, gocache.DefaultExpiration)
	return val
}

// Pin keeps an entry alive until Unpin is called
func (c *MemoryCache[V]) Pin(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if val, _, found := c.cache.GetWithExpiration(key); found {
		c.cache.Set(key, val, gocache.NoExpiration)
	}
}

// Unpin makes an entry inactive again; it expires after the inactivity period
func (c *MemoryCache[V]) Unpin(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if val, _, found := c.cache.GetWithExpiration(key); found {
		c.cache.Set(key, val, gocache.DefaultExpiration)
	}
}

// Delete removes a value from the cache
func (c *MemoryCache[V]) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all values from the cache
func (c *MemoryCache[V]) Clear() {
	c.cache.Flush()
}

// Len returns the number of stored entries, including expired ones not yet purged
func (c *MemoryCache[V]) Len() int {
	return c.cache.ItemCount()
}

// touch must be called with mu held
func (c *MemoryCache[V]) touch(key string) (V, bool) {
	var zero V

	raw, exp, found := c.cache.GetWithExpiration(key)
	if !found {
		return zero, false
	}

	val, ok := raw.(V)
	if !ok {
		return zero, false
	}

	// Pinned entries have a zero expiration and stay pinned
	if !exp.IsZero() {
		c.cache.Set(key, val, gocache.DefaultExpiration)
	}
	return val, true
}
