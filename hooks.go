package verdant

import (
	"sync"

	"github.com/verdantlabs/verdant/internal/content"
)

// Hook function types for content events.
type (
	// ContentCreatedHook is called when an entity is created.
	ContentCreatedHook func(change content.Change)

	// ContentUpdatedHook is called when an entity is updated.
	ContentUpdatedHook func(change content.Change)

	// ContentDeletedHook is called when an entity is deleted. The
	// change carries the entity's last state before deletion.
	ContentDeletedHook func(change content.Change)
)

// hooks manages event callbacks for content changes.
type hooks struct {
	mu       sync.RWMutex
	onCreate []ContentCreatedHook
	onUpdate []ContentUpdatedHook
	onDelete []ContentDeletedHook
}

func newHooks() *hooks {
	return &hooks{}
}

func (h *hooks) onCreated(fn ContentCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCreate = append(h.onCreate, fn)
}

func (h *hooks) onUpdated(fn ContentUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUpdate = append(h.onUpdate, fn)
}

func (h *hooks) onDeleted(fn ContentDeletedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDelete = append(h.onDelete, fn)
}

// dispatch routes a committed change to the callbacks registered for
// its action. It runs on the mutating goroutine after the store lock
// has been released.
func (h *hooks) dispatch(change content.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch change.Action {
	case content.ActionCreated:
		for _, fn := range h.onCreate {
			fn(change)
		}
	case content.ActionUpdated:
		for _, fn := range h.onUpdate {
			fn(change)
		}
	case content.ActionDeleted:
		for _, fn := range h.onDelete {
			fn(change)
		}
	}
}
