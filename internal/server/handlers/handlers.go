// Package handlers provides the HTTP request handlers for the content API.
package handlers

import (
	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/server/cache"
	"github.com/verdantlabs/verdant/internal/store"
)

// Handlers bundles the dependencies of every endpoint.
type Handlers struct {
	store  *store.Store
	cache  *cache.Cache
	logger *zerolog.Logger

	// subscriberCount reports open stream connections for readiness.
	subscriberCount func() int
}

// New creates a Handlers instance.
func New(st *store.Store, c *cache.Cache, subscriberCount func() int, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		store:           st,
		cache:           c,
		logger:          logger,
		subscriberCount: subscriberCount,
	}
}

// invalidate flushes the read cache after a committed mutation. Brand and
// category relations cross-populate, so per-key invalidation buys nothing
// over a flush at this content volume.
func (h *Handlers) invalidate() {
	h.cache.Flush()
}
