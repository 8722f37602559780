package weights

import (
	"sync"
	"time"
)

// Cache holds resolved weight maps for a bounded time. It is injected so
// tests can use NopCache and production a TTLCache; a stale read of up to
// one TTL window is acceptable and races are last-writer-wins.
type Cache interface {
	Get(key string) (Map, bool)
	Set(key string, m Map, ttl time.Duration)
}

type ttlEntry struct {
	weights   Map
	expiresAt time.Time
}

// TTLCache is a mutex-guarded map with per-entry expiry.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]ttlEntry)}
}

func (c *TTLCache) Get(key string) (Map, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.weights, true
}

func (c *TTLCache) Set(key string, m Map, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = ttlEntry{weights: m, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate drops every cached entry, e.g. after a new algorithm version
// is activated.
func (c *TTLCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]ttlEntry)
	c.mu.Unlock()
}

// NopCache never stores anything. Used in tests and one-shot tooling.
type NopCache struct{}

func (NopCache) Get(string) (Map, bool) { return nil, false }
func (NopCache) Set(string, Map, time.Duration) {}
