// Package cache provides a string-keyed in-memory memo cache.
//
// Entries are keyed on the exact literal input string: "Hanoi" and "hanoi"
// are distinct keys. Entries never expire and are never evicted; the only
// way to shrink the cache is Clear. Unbounded growth over the lifetime of
// one assistant instance is an accepted tradeoff.
package cache

import "sync"

// Cache memoizes values of type V by exact string key. Safe for concurrent
// use; entries are immutable once inserted, so reads take a shared lock and
// a last-writer-wins race on the same key is harmless.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// New creates an empty Cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// Get returns the value stored under key, if any.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores v under key, replacing any previous value.
func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

// Clear empties the cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]V)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
