// Package cache provides a small in-process TTL cache used to memoize
// backend reads (categories, wallets, month reports) between page loads.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
	lastUsed  time.Time
}

// TTLCache is a bounded string-keyed cache. When full it evicts the entry
// that was read least recently; expired entries are dropped lazily on access
// and eagerly by Sweep.
type TTLCache[V any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]entry[V]
	now     func() time.Time
}

func New[V any](maxSize int, ttl time.Duration) *TTLCache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &TTLCache[V]{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]entry[V], maxSize),
		now:     time.Now,
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	now := c.now()
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	e.lastUsed = now
	c.entries[key] = e
	return e.value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl), lastUsed: now}
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// DeletePrefix drops every key with the given prefix. Mutating handlers use
// it to invalidate a whole family of cached reads ("wallets:", "report:")
// after a write.
func (c *TTLCache[V]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Sweep removes expired entries and reports how many were dropped.
func (c *TTLCache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestLocked scans for the least recently used entry. Linear, which
// is fine at the sizes this cache runs at (tens of entries).
func (c *TTLCache[V]) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		first     = true
	)
	for key, e := range c.entries {
		if first || e.lastUsed.Before(oldest) {
			oldestKey = key
			oldest = e.lastUsed
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
