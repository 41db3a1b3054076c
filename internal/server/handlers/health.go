package handlers

import (
	"net/http"

	"github.com/verdantlabs/verdant/internal/server/response"
)

// HandleHealth serves GET /_health, the liveness probe the hydration
// client checks before its first fetch.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "verdant-content-api",
	})
}

// HandleReady serves GET /api/_ready with readiness details.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":             "ready",
		"content":            h.store.Stats(),
		"stream_subscribers": h.subscriberCount(),
		"cached_items":       h.cache.ItemCount(),
	})
}
