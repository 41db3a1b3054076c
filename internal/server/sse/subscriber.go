package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/verdantlabs/verdant/internal/server/events"
	"github.com/verdantlabs/verdant/pkg/errors"
)

// subscriberBuffer is how many envelopes a connection may fall behind
// before it is considered dead and dropped.
const subscriberBuffer = 64

// subscriber is one SSE connection's bus endpoint. Sends are decoupled
// from the network write through a buffered channel so a slow socket
// never blocks a broadcast.
type subscriber struct {
	id   string
	ch   chan events.Envelope
	once sync.Once
}

func newSubscriber() *subscriber {
	return &subscriber{
		id: uuid.New().String(),
		ch: make(chan events.Envelope, subscriberBuffer),
	}
}

// ID implements events.Subscriber.
func (s *subscriber) ID() string { return s.id }

// Send implements events.Subscriber. A full buffer counts as a failed
// write: the connection is no longer draining and will be dropped.
func (s *subscriber) Send(envelope events.Envelope) error {
	select {
	case s.ch <- envelope:
		return nil
	default:
		return errors.ErrStreamClosed
	}
}

// Close implements events.Subscriber. Safe to call more than once.
func (s *subscriber) Close() error {
	s.once.Do(func() { close(s.ch) })
	return nil
}
