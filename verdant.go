// Package verdant is the embeddable facade for the content service: an
// in-memory content store, a JSON read/write API, a realtime change
// stream, and a prefetch runner that regenerates the static storefront
// after every change.
package verdant

import (
	"context"
	"net/http"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/internal/server"
	"github.com/verdantlabs/verdant/internal/store"
)

// Verdant manages the content store, its HTTP surface, and change hooks.
type Verdant interface {
	// Handler returns the HTTP handler serving the content API and
	// the event stream.
	Handler() http.Handler

	// Addr returns the configured listen address.
	Addr() string

	// Start launches background services (websocket hub, prefetch).
	Start()

	// Shutdown stops background services and drops all stream
	// subscribers.
	Shutdown(ctx context.Context) error

	// Store returns the underlying content store for direct
	// programmatic mutation. Mutations made through it propagate to
	// stream subscribers and the prefetch runner like API writes do.
	Store() *store.Store

	// OnContentCreated registers a callback for entity creation.
	OnContentCreated(ContentCreatedHook)

	// OnContentUpdated registers a callback for entity updates.
	OnContentUpdated(ContentUpdatedHook)

	// OnContentDeleted registers a callback for entity deletion.
	OnContentDeleted(ContentDeletedHook)
}

// verdant is the internal implementation of the Verdant interface.
type verdant struct {
	config *config
	store  *store.Store
	server *server.Server
	hooks  *hooks
}

// New creates a Verdant instance with the given options.
func New(opts ...Option) (Verdant, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	st := store.New()
	switch {
	case cfg.seedPath != "":
		if err := st.LoadSeed(cfg.seedPath); err != nil {
			return nil, err
		}
	case len(cfg.seedData) > 0:
		if err := st.LoadSeedBytes(cfg.seedData); err != nil {
			return nil, err
		}
	}

	v := &verdant{
		config: cfg,
		store:  st,
		hooks:  newHooks(),
	}

	// The dispatch hook must be registered before the server wires
	// its own, so facade callbacks observe changes first.
	st.OnChange(v.hooks.dispatch)

	v.server = server.New(st, cfg.server, cfg.logger)
	return v, nil
}

func (v *verdant) Handler() http.Handler { return v.server.Handler() }

func (v *verdant) Addr() string { return v.server.Addr() }

func (v *verdant) Start() { v.server.Start() }

func (v *verdant) Shutdown(ctx context.Context) error { return v.server.Shutdown(ctx) }

func (v *verdant) Store() *store.Store { return v.store }

func (v *verdant) OnContentCreated(fn ContentCreatedHook) { v.hooks.onCreated(fn) }

func (v *verdant) OnContentUpdated(fn ContentUpdatedHook) { v.hooks.onUpdated(fn) }

func (v *verdant) OnContentDeleted(fn ContentDeletedHook) { v.hooks.onDeleted(fn) }

// Kinds returns every content kind the service manages.
func Kinds() []content.Kind { return content.Kinds() }
