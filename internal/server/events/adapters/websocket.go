// Package adapters bridges the event bus to additional transports.
// SSE connections subscribe to the bus individually; the WebSocket hub
// subscribes once and fans out to its own clients.
package adapters

import (
	"github.com/google/uuid"

	"github.com/verdantlabs/verdant/internal/server/events"
	ws "github.com/verdantlabs/verdant/internal/server/websocket"
)

// WebSocketSubscriber adapts the WebSocket hub to the Subscriber interface.
type WebSocketSubscriber struct {
	id  string
	hub *ws.Hub
}

// NewWebSocketSubscriber creates a bus subscriber backed by hub.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{id: uuid.New().String(), hub: hub}
}

// ID implements events.Subscriber.
func (s *WebSocketSubscriber) ID() string { return s.id }

// Send queues the envelope on the hub. Never fails: the hub handles its
// own slow clients.
func (s *WebSocketSubscriber) Send(envelope events.Envelope) error {
	s.hub.Broadcast(envelope)
	return nil
}

// Close is a no-op; the hub's lifecycle is owned by the server.
func (s *WebSocketSubscriber) Close() error { return nil }
