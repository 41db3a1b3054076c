package store

import (
	"sort"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/pkg/errors"
)

// Brands returns all brands sorted by name.
func (s *Store) Brands() []content.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]content.Brand, 0, len(s.brands))
	for _, id := range sortedKeys(s.brands) {
		out = append(out, s.brands[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BrandsPopulated returns all brands with their categories expanded.
func (s *Store) BrandsPopulated() []content.Brand {
	brands := s.Brands()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range brands {
		for _, cid := range brands[i].CategoryIDs {
			if cat, ok := s.categories[cid]; ok {
				brands[i].Categories = append(brands[i].Categories, cat)
			}
		}
	}
	return brands
}

// Brand returns one brand by ID.
func (s *Store) Brand(id string) (content.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.brands[id]
	if !ok {
		return content.Brand{}, errors.NewNotFoundError("brand", id)
	}
	return b, nil
}

// CreateBrand adds a brand and fires a created change.
func (s *Store) CreateBrand(b content.Brand) (content.Brand, error) {
	if err := requireField("name", b.Name); err != nil {
		return content.Brand{}, err
	}
	if b.ID == "" {
		b.ID = newID()
	}

	s.mu.Lock()
	if _, exists := s.brands[b.ID]; exists {
		s.mu.Unlock()
		return content.Brand{}, errors.WrapResource("create", "brand", b.ID, errors.ErrAlreadyExists)
	}
	s.brands[b.ID] = b
	s.mu.Unlock()

	s.fire(content.KindBrand, content.ActionCreated, b)
	return b, nil
}

// UpdateBrand replaces a brand and fires an updated change.
func (s *Store) UpdateBrand(id string, b content.Brand) (content.Brand, error) {
	if err := requireField("name", b.Name); err != nil {
		return content.Brand{}, err
	}
	b.ID = id

	s.mu.Lock()
	if _, exists := s.brands[id]; !exists {
		s.mu.Unlock()
		return content.Brand{}, errors.NewNotFoundError("brand", id)
	}
	s.brands[id] = b
	s.mu.Unlock()

	s.fire(content.KindBrand, content.ActionUpdated, b)
	return b, nil
}

// DeleteBrand removes a brand and fires a deleted change carrying the
// pre-deletion snapshot.
func (s *Store) DeleteBrand(id string) error {
	s.mu.Lock()
	b, exists := s.brands[id]
	if !exists {
		s.mu.Unlock()
		return errors.NewNotFoundError("brand", id)
	}
	delete(s.brands, id)
	s.mu.Unlock()

	s.fire(content.KindBrand, content.ActionDeleted, b)
	return nil
}

// Categories returns all categories sorted by name.
func (s *Store) Categories() []content.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]content.Category, 0, len(s.categories))
	for _, id := range sortedKeys(s.categories) {
		out = append(out, s.categories[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CategoriesPopulated returns all categories with their brand expanded.
func (s *Store) CategoriesPopulated() []content.Category {
	cats := s.Categories()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range cats {
		if b, ok := s.brands[cats[i].BrandID]; ok {
			brand := b
			cats[i].Brand = &brand
		}
	}
	return cats
}

// Category returns one category by ID.
func (s *Store) Category(id string) (content.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return content.Category{}, errors.NewNotFoundError("category", id)
	}
	return c, nil
}

// CreateCategory adds a category and fires a created change.
func (s *Store) CreateCategory(c content.Category) (content.Category, error) {
	if err := requireField("name", c.Name); err != nil {
		return content.Category{}, err
	}
	if c.ID == "" {
		c.ID = newID()
	}

	s.mu.Lock()
	if _, exists := s.categories[c.ID]; exists {
		s.mu.Unlock()
		return content.Category{}, errors.WrapResource("create", "category", c.ID, errors.ErrAlreadyExists)
	}
	s.categories[c.ID] = c
	s.mu.Unlock()

	s.fire(content.KindCategory, content.ActionCreated, c)
	return c, nil
}

// UpdateCategory replaces a category and fires an updated change.
func (s *Store) UpdateCategory(id string, c content.Category) (content.Category, error) {
	if err := requireField("name", c.Name); err != nil {
		return content.Category{}, err
	}
	c.ID = id

	s.mu.Lock()
	if _, exists := s.categories[id]; !exists {
		s.mu.Unlock()
		return content.Category{}, errors.NewNotFoundError("category", id)
	}
	s.categories[id] = c
	s.mu.Unlock()

	s.fire(content.KindCategory, content.ActionUpdated, c)
	return c, nil
}

// DeleteCategory removes a category and fires a deleted change.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	c, exists := s.categories[id]
	if !exists {
		s.mu.Unlock()
		return errors.NewNotFoundError("category", id)
	}
	delete(s.categories, id)
	s.mu.Unlock()

	s.fire(content.KindCategory, content.ActionDeleted, c)
	return nil
}

// Products returns all products sorted by name.
func (s *Store) Products() []content.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]content.Product, 0, len(s.products))
	for _, id := range sortedKeys(s.products) {
		out = append(out, s.products[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Product returns one product by ID.
func (s *Store) Product(id string) (content.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return content.Product{}, errors.NewNotFoundError("product", id)
	}
	return p, nil
}

// CreateProduct adds a product and fires a created change.
func (s *Store) CreateProduct(p content.Product) (content.Product, error) {
	if err := requireField("name", p.Name); err != nil {
		return content.Product{}, err
	}
	if p.ID == "" {
		p.ID = newID()
	}

	s.mu.Lock()
	if _, exists := s.products[p.ID]; exists {
		s.mu.Unlock()
		return content.Product{}, errors.WrapResource("create", "product", p.ID, errors.ErrAlreadyExists)
	}
	s.products[p.ID] = p
	s.mu.Unlock()

	s.fire(content.KindProduct, content.ActionCreated, p)
	return p, nil
}

// UpdateProduct replaces a product and fires an updated change.
func (s *Store) UpdateProduct(id string, p content.Product) (content.Product, error) {
	if err := requireField("name", p.Name); err != nil {
		return content.Product{}, err
	}
	p.ID = id

	s.mu.Lock()
	if _, exists := s.products[id]; !exists {
		s.mu.Unlock()
		return content.Product{}, errors.NewNotFoundError("product", id)
	}
	s.products[id] = p
	s.mu.Unlock()

	s.fire(content.KindProduct, content.ActionUpdated, p)
	return p, nil
}

// DeleteProduct removes a product and fires a deleted change.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	p, exists := s.products[id]
	if !exists {
		s.mu.Unlock()
		return errors.NewNotFoundError("product", id)
	}
	delete(s.products, id)
	s.mu.Unlock()

	s.fire(content.KindProduct, content.ActionDeleted, p)
	return nil
}

// Testimonials returns all testimonials sorted by author.
func (s *Store) Testimonials() []content.Testimonial {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]content.Testimonial, 0, len(s.testimonials))
	for _, id := range sortedKeys(s.testimonials) {
		out = append(out, s.testimonials[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Author < out[j].Author })
	return out
}

// CreateTestimonial adds a testimonial and fires a created change.
func (s *Store) CreateTestimonial(tm content.Testimonial) (content.Testimonial, error) {
	if err := requireField("author", tm.Author); err != nil {
		return content.Testimonial{}, err
	}
	if tm.ID == "" {
		tm.ID = newID()
	}

	s.mu.Lock()
	if _, exists := s.testimonials[tm.ID]; exists {
		s.mu.Unlock()
		return content.Testimonial{}, errors.WrapResource("create", "testimonial", tm.ID, errors.ErrAlreadyExists)
	}
	s.testimonials[tm.ID] = tm
	s.mu.Unlock()

	s.fire(content.KindTestimonial, content.ActionCreated, tm)
	return tm, nil
}

// UpdateTestimonial replaces a testimonial and fires an updated change.
func (s *Store) UpdateTestimonial(id string, tm content.Testimonial) (content.Testimonial, error) {
	if err := requireField("author", tm.Author); err != nil {
		return content.Testimonial{}, err
	}
	tm.ID = id

	s.mu.Lock()
	if _, exists := s.testimonials[id]; !exists {
		s.mu.Unlock()
		return content.Testimonial{}, errors.NewNotFoundError("testimonial", id)
	}
	s.testimonials[id] = tm
	s.mu.Unlock()

	s.fire(content.KindTestimonial, content.ActionUpdated, tm)
	return tm, nil
}

// DeleteTestimonial removes a testimonial and fires a deleted change.
func (s *Store) DeleteTestimonial(id string) error {
	s.mu.Lock()
	tm, exists := s.testimonials[id]
	if !exists {
		s.mu.Unlock()
		return errors.NewNotFoundError("testimonial", id)
	}
	delete(s.testimonials, id)
	s.mu.Unlock()

	s.fire(content.KindTestimonial, content.ActionDeleted, tm)
	return nil
}

// Features returns all features sorted by display order.
func (s *Store) Features() []content.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]content.Feature, 0, len(s.features))
	for _, id := range sortedKeys(s.features) {
		out = append(out, s.features[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CreateFeature adds a feature and fires a created change.
func (s *Store) CreateFeature(f content.Feature) (content.Feature, error) {
	if err := requireField("title", f.Title); err != nil {
		return content.Feature{}, err
	}
	if f.ID == "" {
		f.ID = newID()
	}

	s.mu.Lock()
	if _, exists := s.features[f.ID]; exists {
		s.mu.Unlock()
		return content.Feature{}, errors.WrapResource("create", "feature", f.ID, errors.ErrAlreadyExists)
	}
	s.features[f.ID] = f
	s.mu.Unlock()

	s.fire(content.KindFeature, content.ActionCreated, f)
	return f, nil
}

// UpdateFeature replaces a feature and fires an updated change.
func (s *Store) UpdateFeature(id string, f content.Feature) (content.Feature, error) {
	if err := requireField("title", f.Title); err != nil {
		return content.Feature{}, err
	}
	f.ID = id

	s.mu.Lock()
	if _, exists := s.features[id]; !exists {
		s.mu.Unlock()
		return content.Feature{}, errors.NewNotFoundError("feature", id)
	}
	s.features[id] = f
	s.mu.Unlock()

	s.fire(content.KindFeature, content.ActionUpdated, f)
	return f, nil
}

// DeleteFeature removes a feature and fires a deleted change.
func (s *Store) DeleteFeature(id string) error {
	s.mu.Lock()
	f, exists := s.features[id]
	if !exists {
		s.mu.Unlock()
		return errors.NewNotFoundError("feature", id)
	}
	delete(s.features, id)
	s.mu.Unlock()

	s.fire(content.KindFeature, content.ActionDeleted, f)
	return nil
}
