// Package cache provides an expiring key/value store for memoizing
// hash-keyed computations (extraction results, external analyzer output).
// Keys are composite strings built by the helpers in keys.go so every caller
// shares the "<operation>:<file>[:<hash>]" convention.
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is used when Set is called with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

type entry[V any] struct {
	value    V
	deadline time.Time
}

// Stats counts cache activity. An expired entry discovered on Get counts as
// both a miss and an eviction.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// Cache is a concurrency-safe store with per-entry TTL. Expiry is evaluated
// lazily on Get; there is no background sweep, so an untouched expired entry
// simply lingers until the next lookup or invalidation. Recomputing an
// evicted value is always safe, callers treat every miss the same way.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	stats      Stats
	defaultTTL time.Duration
	now        func() time.Time
}

// New creates a cache whose Set calls fall back to defaultTTL when given a
// non-positive TTL. A non-positive defaultTTL selects DefaultTTL.
func New[V any](defaultTTL time.Duration) *Cache[V] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache[V]{
		entries:    make(map[string]entry[V]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the value stored under key. An expired entry is removed on
// touch and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	if c.now().After(e.deadline) {
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl uses the cache's
// default.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, deadline: c.now().Add(ttl)}
}

// Invalidate removes key and reports whether it was present.
func (c *Cache[V]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.stats.Evictions++
	return true
}

// InvalidateByPrefix removes every entry whose key starts with prefix and
// returns how many were removed.
func (c *Cache[V]) InvalidateByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			c.stats.Evictions++
			count++
		}
	}
	return count
}

// Clear drops every entry without touching the counters.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the hit/miss/eviction counters.
func (c *Cache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
