package client

import (
	"strings"
	"sync"
)

// Cache memoizes GET responses under explicit per-collection keys.
// Mutations invalidate the keys they affect on success, so the next
// read refetches. Raw response bytes are stored; every hit decodes
// fresh, which keeps callers from sharing mutable state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	c.entries[key] = data
	c.mu.Unlock()
}

// Invalidate drops exact keys.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// InvalidatePrefix drops every key under a collection prefix, e.g. all
// cached course listings regardless of their filter query.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Clear empties the cache, used on login/logout since cached data may
// be scoped to the previous identity.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string][]byte)
	c.mu.Unlock()
}
