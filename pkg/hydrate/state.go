package hydrate

import (
	"sync"
	"time"

	"github.com/verdantlabs/verdant/internal/content"
)

// State is the local content snapshot. All accessors return copies, so
// callers can render from them without holding any lock.
type State struct {
	mu           sync.RWMutex
	siteSetting  content.SiteSetting
	heroSection  content.HeroSection
	brands       []content.Brand
	categories   []content.Category
	products     []content.Product
	testimonials []content.Testimonial
	features     []content.Feature
	loadedAt     time.Time
}

// NewState returns an empty snapshot.
func NewState() *State {
	return &State{}
}

// Snapshot is a pre-fetched content set, typically produced at build
// time, used to seed a State before the first live reload.
type Snapshot struct {
	SiteSetting  content.SiteSetting
	HeroSection  content.HeroSection
	Brands       []content.Brand
	Categories   []content.Category
	Products     []content.Product
	Testimonials []content.Testimonial
	Features     []content.Feature
}

// NewStateFromSnapshot returns a State seeded from a pre-fetched
// snapshot. The state counts as loaded, so a failing initial reload
// stays silent and the seeded content keeps rendering.
func NewStateFromSnapshot(snap Snapshot) *State {
	return &State{
		siteSetting:  snap.SiteSetting,
		heroSection:  snap.HeroSection,
		brands:       append([]content.Brand(nil), snap.Brands...),
		categories:   append([]content.Category(nil), snap.Categories...),
		products:     append([]content.Product(nil), snap.Products...),
		testimonials: append([]content.Testimonial(nil), snap.Testimonials...),
		features:     append([]content.Feature(nil), snap.Features...),
		loadedAt:     time.Now(),
	}
}

// Loaded reports whether at least one full load has completed.
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// LoadedAt returns the time of the last full load.
func (s *State) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// SiteSetting returns the current site settings.
func (s *State) SiteSetting() content.SiteSetting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.siteSetting
}

// HeroSection returns the current hero section.
func (s *State) HeroSection() content.HeroSection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heroSection
}

// Brands returns a copy of the brand list.
func (s *State) Brands() []content.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]content.Brand(nil), s.brands...)
}

// Categories returns a copy of the category list.
func (s *State) Categories() []content.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]content.Category(nil), s.categories...)
}

// Products returns a copy of the product list.
func (s *State) Products() []content.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]content.Product(nil), s.products...)
}

// Testimonials returns a copy of the testimonial list.
func (s *State) Testimonials() []content.Testimonial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]content.Testimonial(nil), s.testimonials...)
}

// Features returns a copy of the feature list.
func (s *State) Features() []content.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]content.Feature(nil), s.features...)
}

func (s *State) setSiteSetting(v content.SiteSetting) {
	s.mu.Lock()
	s.siteSetting = v
	s.mu.Unlock()
}

func (s *State) setHeroSection(v content.HeroSection) {
	s.mu.Lock()
	s.heroSection = v
	s.mu.Unlock()
}

func (s *State) setBrands(v []content.Brand) {
	s.mu.Lock()
	s.brands = v
	s.mu.Unlock()
}

func (s *State) setCategories(v []content.Category) {
	s.mu.Lock()
	s.categories = v
	s.mu.Unlock()
}

func (s *State) setProducts(v []content.Product) {
	s.mu.Lock()
	s.products = v
	s.mu.Unlock()
}

func (s *State) setTestimonials(v []content.Testimonial) {
	s.mu.Lock()
	s.testimonials = v
	s.mu.Unlock()
}

func (s *State) setFeatures(v []content.Feature) {
	s.mu.Lock()
	s.features = v
	s.mu.Unlock()
}

func (s *State) markLoaded(at time.Time) {
	s.mu.Lock()
	s.loadedAt = at
	s.mu.Unlock()
}
