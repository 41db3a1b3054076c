package events

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/errors"
)

// mockSubscriber records sends and can be told to fail.
type mockSubscriber struct {
	id     string
	mu     sync.Mutex
	sends  []Envelope
	fail   bool
	closed bool
}

func newMockSubscriber(id string) *mockSubscriber {
	return &mockSubscriber{id: id}
}

func (m *mockSubscriber) ID() string { return m.id }

func (m *mockSubscriber) Send(e Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, e)
	if m.fail {
		return errors.ErrStreamClosed
	}
	return nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSubscriber) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sends)
}

func (m *mockSubscriber) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func testBus() *Bus {
	logger := zerolog.Nop()
	return NewBus(&logger)
}

func TestBus_FanOut(t *testing.T) {
	b := testBus()

	subs := make([]*mockSubscriber, 5)
	for i := range subs {
		subs[i] = newMockSubscriber(string(rune('a' + i)))
		b.Register(subs[i])
	}

	b.Broadcast(Update(content.NewChange(content.KindProduct, content.ActionUpdated, nil)))

	// Exactly one send attempt per registered subscriber.
	for _, sub := range subs {
		if sub.SendCount() != 1 {
			t.Errorf("subscriber %s got %d sends, want 1", sub.id, sub.SendCount())
		}
	}
}

func TestBus_FailedSendDropsOnlyFailedSubscribers(t *testing.T) {
	b := testBus()

	healthy1 := newMockSubscriber("h1")
	broken := newMockSubscriber("x")
	broken.fail = true
	healthy2 := newMockSubscriber("h2")

	b.Register(healthy1)
	b.Register(broken)
	b.Register(healthy2)

	b.Broadcast(Ping())

	// Failure on one subscriber must not prevent delivery to the rest.
	if healthy1.SendCount() != 1 || healthy2.SendCount() != 1 {
		t.Error("healthy subscribers missed the broadcast")
	}

	// The failed subscriber is unregistered and closed; set shrinks by
	// exactly the failed count.
	if got := b.SubscriberCount(); got != 2 {
		t.Errorf("subscriber count = %d, want 2", got)
	}
	if !broken.Closed() {
		t.Error("failed subscriber was not closed")
	}

	// No retry: a second broadcast reaches only the survivors.
	b.Broadcast(Ping())
	if broken.SendCount() != 1 {
		t.Errorf("dropped subscriber received %d sends, want 1", broken.SendCount())
	}
}

func TestBus_UnregisterIdempotent(t *testing.T) {
	b := testBus()

	sub := newMockSubscriber("s")
	other := newMockSubscriber("o")
	b.Register(sub)
	b.Register(other)

	b.Unregister(sub)
	b.Unregister(sub)                      // second removal is a no-op
	b.Unregister(newMockSubscriber("gone")) // never registered

	if got := b.SubscriberCount(); got != 1 {
		t.Errorf("subscriber count = %d, want 1", got)
	}

	b.Broadcast(Ping())
	if other.SendCount() != 1 {
		t.Error("remaining subscriber was affected by unregister calls")
	}
}

func TestBus_UpdateEnvelopeShape(t *testing.T) {
	b := testBus()
	sub := newMockSubscriber("s")
	b.Register(sub)

	change := content.NewChange(content.KindBrand, content.ActionCreated, content.Brand{ID: "b1", Name: "Gardena"})
	b.Broadcast(Update(change))

	if sub.SendCount() != 1 {
		t.Fatal("no envelope delivered")
	}
	env := sub.sends[0]
	if env.Type != MessageUpdate {
		t.Errorf("type = %s", env.Type)
	}
	if env.Data == nil || env.Data.Kind != content.KindBrand || env.Data.Action != content.ActionCreated {
		t.Errorf("embedded change = %+v", env.Data)
	}
	if env.Timestamp.IsZero() {
		t.Error("missing timestamp")
	}
}

func TestBus_Shutdown(t *testing.T) {
	b := testBus()
	sub1 := newMockSubscriber("1")
	sub2 := newMockSubscriber("2")
	b.Register(sub1)
	b.Register(sub2)

	b.Shutdown()

	if b.SubscriberCount() != 0 {
		t.Error("subscribers remain after shutdown")
	}
	if !sub1.Closed() || !sub2.Closed() {
		t.Error("subscribers not closed on shutdown")
	}
}
