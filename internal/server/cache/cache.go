// Package cache provides a short-TTL read cache for the content API.
// Read endpoints serve from it between mutations. Invalidation is a
// full flush on every committed mutation: brand and category relations
// cross-populate, so flushing everything is no worse than tracking
// per-kind keys at this content volume. The TTL bounds staleness for
// anything a flush ever misses.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a flush-on-write wrapper around go-cache. Keys are the
// content collection names the handlers cache under.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache with the given default TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached value.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Flush drops every cached collection. Called after each committed
// mutation.
func (c *Cache) Flush() {
	c.store.Flush()
}

// ItemCount returns the number of cached items.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
