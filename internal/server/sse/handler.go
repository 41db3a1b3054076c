// Package sse serves the long-lived event-stream endpoint that pushes
// content change notifications to browsers.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/server/events"
)

// DefaultHeartbeat is how often an idle connection receives a ping.
const DefaultHeartbeat = 30 * time.Second

// Handler upgrades GET requests into text/event-stream responses and
// bridges them onto the event bus. The handler fully owns the response;
// nothing may write to it afterwards.
type Handler struct {
	bus       *events.Bus
	heartbeat time.Duration
	logger    *zerolog.Logger
}

// NewHandler creates an SSE handler publishing connections to bus.
func NewHandler(bus *events.Bus, heartbeat time.Duration, logger *zerolog.Logger) *Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Handler{bus: bus, heartbeat: heartbeat, logger: logger}
}

// ServeHTTP handles one stream connection for its whole lifetime.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Handshake before registration so the client sees a frame
	// immediately.
	if err := h.writeFrame(w, flusher, events.Connected()); err != nil {
		return
	}

	sub := newSubscriber()
	h.bus.Register(sub)
	defer h.bus.Unregister(sub)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case envelope, open := <-sub.ch:
			if !open {
				// Bus dropped us (failed send elsewhere or shutdown).
				return
			}
			if err := h.writeFrame(w, flusher, envelope); err != nil {
				h.logger.Debug().
					Err(err).
					Str("subscriber_id", sub.id).
					Msg("Stream write failed")
				return
			}

		case <-ticker.C:
			if err := h.writeFrame(w, flusher, events.Ping()); err != nil {
				h.logger.Debug().
					Err(err).
					Str("subscriber_id", sub.id).
					Msg("Heartbeat write failed")
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

// writeFrame serializes one envelope as a `data: <JSON>` frame and
// flushes it.
func (h *Handler) writeFrame(w http.ResponseWriter, flusher http.Flusher, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal stream envelope")
		return nil // malformed payload is dropped, not fatal to the stream
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
