// Package cache implements the read-through cache consulted before the
// persistent store. Entries carry an absolute expiry and are evicted lazily:
// an expired entry is removed on the next Get that touches it, never swept
// proactively. There is no invalidation API; writers that want fresher data
// overwrite the keys they own and everything else ages out on TTL.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value  any
	expiry time.Time
}

// Cache is a concurrency-safe key–value store with per-entry expiry. The
// (value, expiry) pair is stored as a single immutable entry, so a Get racing
// a Set on the same key observes either the old pair or the new one, never a
// mix. Unrelated keys never contend on a common lock.
//
// A Cache must be constructed with New and passed down the dependency graph;
// there is no package-level instance.
type Cache struct {
	entries    sync.Map // string -> entry
	defaultTTL time.Duration
}

// DefaultTTL is used when a Cache is constructed with a non-positive TTL.
const DefaultTTL = 10 * time.Minute

// New creates an empty cache. Entries written via Set expire defaultTTL after
// the write; pass 0 to use DefaultTTL.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{defaultTTL: defaultTTL}
}

// Get returns the value stored under key, if present and not expired.
// Discovering an expired entry removes it as a side effect and reports a miss.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if time.Now().Before(e.expiry) {
		return e.value, true
	}
	c.entries.Delete(key)
	return nil, false
}

// Set inserts or overwrites key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL inserts or overwrites key with expiry now+ttl. An overwrite
// discards the previous value and its expiry unconditionally.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.entries.Store(key, entry{value: value, expiry: time.Now().Add(ttl)})
}
