// Package store holds the storefront content in memory and fires change
// hooks after every committed mutation. It is the producer side of the
// real-time propagation pipeline: the HTTP write path mutates the store,
// the store notifies its hooks, and the hooks broadcast and prefetch.
package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/errors"
)

// ChangeHook is called once per committed mutation, after the store state
// is updated. Hooks run on the mutating goroutine and should only enqueue
// work, not block.
type ChangeHook func(content.Change)

// Store is the in-memory content store for all seven kinds.
type Store struct {
	mu sync.RWMutex

	siteSetting content.SiteSetting
	heroSection content.HeroSection

	brands       map[string]content.Brand
	categories   map[string]content.Category
	products     map[string]content.Product
	testimonials map[string]content.Testimonial
	features     map[string]content.Feature

	hookMu sync.RWMutex
	hooks  []ChangeHook
}

// New creates an empty store.
func New() *Store {
	return &Store{
		brands:       make(map[string]content.Brand),
		categories:   make(map[string]content.Category),
		products:     make(map[string]content.Product),
		testimonials: make(map[string]content.Testimonial),
		features:     make(map[string]content.Feature),
	}
}

// OnChange registers a hook called after every committed mutation.
func (s *Store) OnChange(hook ChangeHook) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// fire invokes all registered hooks with a freshly stamped change.
// Callers must have released the store lock: the mutation is committed
// before the event exists.
func (s *Store) fire(kind content.Kind, action content.Action, data any) {
	change := content.NewChange(kind, action, data)

	s.hookMu.RLock()
	hooks := make([]ChangeHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.hookMu.RUnlock()

	for _, hook := range hooks {
		hook(change)
	}
}

// newID returns a fresh entity identifier.
func newID() string {
	return uuid.New().String()
}

// Stats reports entity counts per collection kind.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"brands":       len(s.brands),
		"categories":   len(s.categories),
		"products":     len(s.products),
		"testimonials": len(s.testimonials),
		"features":     len(s.features),
	}
}

// SiteSetting returns the site settings singleton.
func (s *Store) SiteSetting() content.SiteSetting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.siteSetting
}

// SetSiteSetting replaces the site settings singleton.
func (s *Store) SetSiteSetting(setting content.SiteSetting) {
	s.mu.Lock()
	s.siteSetting = setting
	s.mu.Unlock()

	s.fire(content.KindSiteSetting, content.ActionUpdated, setting)
}

// HeroSection returns the hero section singleton.
func (s *Store) HeroSection() content.HeroSection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heroSection
}

// SetHeroSection replaces the hero section singleton.
func (s *Store) SetHeroSection(hero content.HeroSection) {
	s.mu.Lock()
	s.heroSection = hero
	s.mu.Unlock()

	s.fire(content.KindHeroSection, content.ActionUpdated, hero)
}

// sortedKeys returns map keys in a stable order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// requireField rejects an empty required field.
func requireField(field, value string) error {
	if value == "" {
		return errors.NewValidationError(field, value, "must not be empty")
	}
	return nil
}
