package events

// Subscriber is one open realtime connection.
// Implementations adapt the event stream to a transport (SSE, WebSocket).
type Subscriber interface {
	// ID returns the connection's process-unique identifier.
	ID() string

	// Send delivers one envelope. It must not block; a returned error
	// means the connection is no longer writable and the bus will drop
	// the subscriber.
	Send(Envelope) error

	// Close releases the connection. Called at most once by the bus;
	// must be safe after the transport already went away.
	Close() error
}
