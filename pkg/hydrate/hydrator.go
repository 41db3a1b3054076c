package hydrate

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/logging"
)

// DefaultReloadInterval is the period of the safety-net full reload.
const DefaultReloadInterval = 30 * time.Second

// Notifier surfaces content changes and load failures to whatever UI
// sits on top of the snapshot.
type Notifier interface {
	// ContentUpdated fires after a collection reload caused by a
	// change event, with a display message for the changed kind.
	ContentUpdated(kind content.Kind, message string)

	// LoadFailed fires when the initial load fails with no existing
	// snapshot to fall back on.
	LoadFailed(err error)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// ContentUpdated implements Notifier.
func (NopNotifier) ContentUpdated(content.Kind, string) {}

// LoadFailed implements Notifier.
func (NopNotifier) LoadFailed(error) {}

// updateMessages are the per-kind toast texts shown after a reload.
var updateMessages = map[content.Kind]string{
	content.KindSiteSetting: "Налаштування сайту оновлено",
	content.KindHeroSection: "Головний банер оновлено",
	content.KindBrand:       "Бренди оновлено",
	content.KindCategory:    "Категорії оновлено",
	content.KindProduct:     "Товар оновлено",
	content.KindTestimonial: "Відгуки оновлено",
	content.KindFeature:     "Переваги оновлено",
}

// MessageFor returns the display message for a changed kind.
func MessageFor(kind content.Kind) string {
	if msg, ok := updateMessages[kind]; ok {
		return msg
	}
	return "Вміст оновлено"
}

// Hydrator keeps a State in sync with the server.
type Hydrator struct {
	client   *Client
	state    *State
	notifier Notifier
	logger   *zerolog.Logger
	interval time.Duration
}

// HydratorOption configures a Hydrator.
type HydratorOption func(*Hydrator)

// WithNotifier sets the UI notifier.
func WithNotifier(n Notifier) HydratorOption {
	return func(h *Hydrator) { h.notifier = n }
}

// WithReloadInterval overrides the periodic full reload interval.
func WithReloadInterval(d time.Duration) HydratorOption {
	return func(h *Hydrator) { h.interval = d }
}

// WithHydratorLogger overrides the hydrator's logger.
func WithHydratorLogger(logger *zerolog.Logger) HydratorOption {
	return func(h *Hydrator) { h.logger = logger }
}

// NewHydrator creates a hydrator around a read client and a snapshot.
func NewHydrator(client *Client, state *State, opts ...HydratorOption) *Hydrator {
	h := &Hydrator{
		client:   client,
		state:    state,
		notifier: NopNotifier{},
		logger:   logging.Default(),
		interval: DefaultReloadInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State returns the snapshot the hydrator maintains.
func (h *Hydrator) State() *State {
	return h.state
}

// Run performs the initial load and then re-syncs the full snapshot on
// a timer until ctx is cancelled. Change-driven reloads happen through
// HandleChange, typically wired as a stream consumer's update handler.
func (h *Hydrator) Run(ctx context.Context) {
	if err := h.FullReload(ctx); err != nil {
		h.logger.Error().Err(err).Msg("Initial content load failed")
		if !h.state.Loaded() {
			h.notifier.LoadFailed(err)
		}
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Periodic reload is silent. A transient failure just
			// leaves the previous snapshot in place.
			if err := h.FullReload(ctx); err != nil {
				h.logger.Warn().Err(err).Msg("Periodic content reload failed")
			}
		}
	}
}

// HandleChange reloads the collection named by the change. Unknown
// kinds fall back to a full reload. Reload failures are logged and
// swallowed; the previous snapshot stays in place.
func (h *Hydrator) HandleChange(change content.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.reloadKind(ctx, change.Kind); err != nil {
		h.logger.Warn().
			Err(err).
			Str("kind", string(change.Kind)).
			Msg("Reload after change event failed")
		return
	}

	h.notifier.ContentUpdated(change.Kind, MessageFor(change.Kind))
	h.logger.Debug().
		Str("kind", string(change.Kind)).
		Str("action", string(change.Action)).
		Msg("Snapshot refreshed after change event")
}

// reloadKind refreshes one collection, or everything for unknown kinds.
func (h *Hydrator) reloadKind(ctx context.Context, kind content.Kind) error {
	switch kind {
	case content.KindSiteSetting:
		v, err := h.client.SiteSetting(ctx)
		if err != nil {
			return err
		}
		h.state.setSiteSetting(v)
	case content.KindHeroSection:
		v, err := h.client.HeroSection(ctx)
		if err != nil {
			return err
		}
		h.state.setHeroSection(v)
	case content.KindBrand:
		v, err := h.client.Brands(ctx)
		if err != nil {
			return err
		}
		h.state.setBrands(v)
	case content.KindCategory:
		v, err := h.client.Categories(ctx)
		if err != nil {
			return err
		}
		h.state.setCategories(v)
	case content.KindProduct:
		v, err := h.client.Products(ctx)
		if err != nil {
			return err
		}
		h.state.setProducts(v)
	case content.KindTestimonial:
		v, err := h.client.Testimonials(ctx)
		if err != nil {
			return err
		}
		h.state.setTestimonials(v)
	case content.KindFeature:
		v, err := h.client.Features(ctx)
		if err != nil {
			return err
		}
		h.state.setFeatures(v)
	default:
		h.logger.Warn().Str("kind", string(kind)).Msg("Unknown content kind, falling back to full reload")
		return h.FullReload(ctx)
	}
	return nil
}

// FullReload refreshes every collection. It stops at the first error so
// a down server costs one request, not seven.
func (h *Hydrator) FullReload(ctx context.Context) error {
	siteSetting, err := h.client.SiteSetting(ctx)
	if err != nil {
		return err
	}
	heroSection, err := h.client.HeroSection(ctx)
	if err != nil {
		return err
	}
	brands, err := h.client.Brands(ctx)
	if err != nil {
		return err
	}
	categories, err := h.client.Categories(ctx)
	if err != nil {
		return err
	}
	products, err := h.client.Products(ctx)
	if err != nil {
		return err
	}
	testimonials, err := h.client.Testimonials(ctx)
	if err != nil {
		return err
	}
	features, err := h.client.Features(ctx)
	if err != nil {
		return err
	}

	h.state.setSiteSetting(siteSetting)
	h.state.setHeroSection(heroSection)
	h.state.setBrands(brands)
	h.state.setCategories(categories)
	h.state.setProducts(products)
	h.state.setTestimonials(testimonials)
	h.state.setFeatures(features)
	h.state.markLoaded(time.Now())

	h.logger.Debug().
		Int("brands", len(brands)).
		Int("categories", len(categories)).
		Int("products", len(products)).
		Msg("Full content snapshot loaded")
	return nil
}
