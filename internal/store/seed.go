package store

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/verdantlabs/verdant/internal/content"
)

// Seed is the on-disk shape of a content seed file.
type Seed struct {
	SiteSetting  content.SiteSetting   `yaml:"siteSetting"`
	HeroSection  content.HeroSection   `yaml:"heroSection"`
	Brands       []content.Brand       `yaml:"brands"`
	Categories   []content.Category    `yaml:"categories"`
	Products     []content.Product     `yaml:"products"`
	Testimonials []content.Testimonial `yaml:"testimonials"`
	Features     []content.Feature     `yaml:"features"`
}

// LoadSeed populates the store from a YAML seed file. Seeding replaces
// the current state and does not fire change hooks: it is initial state,
// not a mutation.
func (s *Store) LoadSeed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file %s: %w", path, err)
	}
	return s.LoadSeedBytes(raw)
}

// LoadSeedBytes populates the store from raw YAML.
func (s *Store) LoadSeedBytes(raw []byte) error {
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parsing seed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.siteSetting = seed.SiteSetting
	s.heroSection = seed.HeroSection

	s.brands = make(map[string]content.Brand, len(seed.Brands))
	for _, b := range seed.Brands {
		if b.ID == "" {
			b.ID = newID()
		}
		s.brands[b.ID] = b
	}

	s.categories = make(map[string]content.Category, len(seed.Categories))
	for _, c := range seed.Categories {
		if c.ID == "" {
			c.ID = newID()
		}
		s.categories[c.ID] = c
	}

	s.products = make(map[string]content.Product, len(seed.Products))
	for _, p := range seed.Products {
		if p.ID == "" {
			p.ID = newID()
		}
		s.products[p.ID] = p
	}

	s.testimonials = make(map[string]content.Testimonial, len(seed.Testimonials))
	for _, tm := range seed.Testimonials {
		if tm.ID == "" {
			tm.ID = newID()
		}
		s.testimonials[tm.ID] = tm
	}

	s.features = make(map[string]content.Feature, len(seed.Features))
	for _, f := range seed.Features {
		if f.ID == "" {
			f.ID = newID()
		}
		s.features[f.ID] = f
	}

	return nil
}
