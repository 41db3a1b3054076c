// Package events distributes content change notifications to every open
// realtime connection. The bus does not filter by content kind: every
// subscriber receives every event and routes it client-side.
package events

import (
	"time"

	"github.com/verdantlabs/verdant/internal/content"
)

// MessageType discriminates the wire messages sent to stream clients.
type MessageType string

// Wire message types.
const (
	MessageConnected MessageType = "connected"
	MessagePing      MessageType = "ping"
	MessageUpdate    MessageType = "update"
)

// Envelope is one server-to-client stream message.
type Envelope struct {
	Type      MessageType     `json:"type"`
	Data      *content.Change `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Connected builds the handshake message sent once per connection.
func Connected() Envelope {
	return Envelope{Type: MessageConnected, Timestamp: time.Now().UTC()}
}

// Ping builds a keep-alive message.
func Ping() Envelope {
	return Envelope{Type: MessagePing, Timestamp: time.Now().UTC()}
}

// Update wraps a committed content change for broadcast.
func Update(change content.Change) Envelope {
	return Envelope{Type: MessageUpdate, Data: &change, Timestamp: time.Now().UTC()}
}
