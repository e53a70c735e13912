package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	capturedAt time.Time
	payload    any
}

// Cache is a process-local freshness cache. Entries are overwritten on Put
// and bypassed (not deleted) once older than the caller's window, so a
// failed refresh never loses the last good payload.
//
// The key space is bounded by the supported asset catalog, so there is no
// eviction.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	now func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the payload stored under key iff it is younger than window.
// The second return value reports a hit.
func (c *Cache) Get(key string, window time.Duration) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(e.capturedAt) >= window {
		return nil, false
	}
	return e.payload, true
}

// Put stores payload under key with a fresh capture time, replacing any
// previous entry.
func (c *Cache) Put(key string, payload any) {
	c.mu.Lock()
	c.entries[key] = entry{capturedAt: c.now(), payload: payload}
	c.mu.Unlock()
}

// Len reports the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// DeriveKey builds a stable cache key from an endpoint name and every
// parameter that affects the response. Identical requests map to the same
// key; requests differing in any parameter never collide.
func DeriveKey(endpoint string, params ...string) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "|" + strings.Join(params, "|")
}
