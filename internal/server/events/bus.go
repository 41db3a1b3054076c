package events

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/telemetry"
)

// Bus maintains the set of open stream connections and fans change
// events out to all of them. It is constructed once at server startup
// and handed to the SSE handler and the change hooks; there is no
// package-level state.
//
// Delivery is best-effort and at-most-once: a failed send drops that
// subscriber and never blocks the others. Clients reconcile missed
// events through periodic full reloads.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	logger      *zerolog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]Subscriber),
		logger:      logger,
	}
}

// Register adds a subscriber to the set.
func (b *Bus) Register(sub Subscriber) {
	b.mu.Lock()
	b.subscribers[sub.ID()] = sub
	total := len(b.subscribers)
	b.mu.Unlock()

	telemetry.SubscriberCount.Set(float64(total))
	b.logger.Info().
		Str("subscriber_id", sub.ID()).
		Int("total_subscribers", total).
		Msg("Stream subscriber registered")
}

// Unregister removes a subscriber and closes it. Idempotent: removing a
// subscriber twice, or one that was never registered, is a no-op.
func (b *Bus) Unregister(sub Subscriber) {
	b.mu.Lock()
	registered, ok := b.subscribers[sub.ID()]
	if ok {
		delete(b.subscribers, sub.ID())
	}
	total := len(b.subscribers)
	b.mu.Unlock()

	if !ok {
		return
	}
	_ = registered.Close()

	telemetry.SubscriberCount.Set(float64(total))
	b.logger.Info().
		Str("subscriber_id", sub.ID()).
		Int("total_subscribers", total).
		Msg("Stream subscriber unregistered")
}

// Broadcast delivers one envelope to every registered subscriber, in
// arbitrary order. Exactly one send attempt is made per subscriber;
// subscribers whose send fails are unregistered immediately.
func (b *Bus) Broadcast(envelope Envelope) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	if envelope.Data != nil {
		telemetry.EventsBroadcast.WithLabelValues(string(envelope.Data.Kind)).Inc()
	}

	var failed []Subscriber
	for _, sub := range subs {
		if err := sub.Send(envelope); err != nil {
			b.logger.Warn().
				Err(err).
				Str("subscriber_id", sub.ID()).
				Str("message_type", string(envelope.Type)).
				Msg("Subscriber send failed, dropping")
			failed = append(failed, sub)
		}
	}

	for _, sub := range failed {
		telemetry.SendFailures.Inc()
		b.Unregister(sub)
	}

	b.logger.Debug().
		Str("message_type", string(envelope.Type)).
		Int("subscribers", len(subs)).
		Int("failed", len(failed)).
		Msg("Envelope broadcast")
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Shutdown closes and removes every subscriber.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	subs := b.subscribers
	b.subscribers = make(map[string]Subscriber)
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	telemetry.SubscriberCount.Set(0)
	b.logger.Info().Int("closed", len(subs)).Msg("Event bus shut down")
}
