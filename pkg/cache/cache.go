package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	val V
	exp time.Time
}

// MemoryCache is a TTL map. Every hit pushes the entry's expiry forward by
// the TTL, so entries expire after a period of disuse.
type MemoryCache[V any] struct {
	mu  sync.Mutex
	m   map[string]entry[V]
	ttl time.Duration
	now func() time.Time
}

func NewMemory[V any](ttl time.Duration) *MemoryCache[V] {
	return &MemoryCache[V]{m: make(map[string]entry[V]), ttl: ttl, now: time.Now}
}

func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	e, ok := c.m[key]
	if !ok {
		return zero, false
	}
	now := c.now()
	if now.After(e.exp) {
		delete(c.m, key)
		return zero, false
	}
	e.exp = now.Add(c.ttl)
	c.m[key] = e
	return e.val, true
}

func (c *MemoryCache[V]) Set(key string, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry[V]{val: val, exp: c.now().Add(c.ttl)}
}

func (c *MemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// Sweep drops every entry that expired before now and reports how many were
// removed.
func (c *MemoryCache[V]) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
			n++
		}
	}
	return n
}

// Len counts stored entries, including expired ones not yet swept.
func (c *MemoryCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
