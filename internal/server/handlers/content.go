package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/verdantlabs/verdant/internal/content"
	"github.com/verdantlabs/verdant/internal/server/response"
)

// HandleProducts serves GET and POST on /api/products.
func (h *Handlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if cached, ok := h.cache.Get("products"); ok {
			response.OK(w, cached)
			return
		}
		products := h.store.Products()
		h.cache.Set("products", products)
		response.OK(w, products)

	case http.MethodPost:
		var p content.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			response.BadRequest(w, "Invalid product payload", err.Error())
			return
		}
		created, err := h.store.CreateProduct(p)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.Created(w, created)

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleProductByID serves GET, PUT and DELETE on /api/products/{id}.
func (h *Handlers) HandleProductByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		p, err := h.store.Product(id)
		if err != nil {
			response.FromError(w, err)
			return
		}
		response.OK(w, p)

	case http.MethodPut:
		var p content.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			response.BadRequest(w, "Invalid product payload", err.Error())
			return
		}
		updated, err := h.store.UpdateProduct(id, p)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, updated)

	case http.MethodDelete:
		if err := h.store.DeleteProduct(id); err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, map[string]string{"id": id})

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleBrands serves GET and POST on /api/brands. GET supports
// ?populate=categories.
func (h *Handlers) HandleBrands(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		populate := r.URL.Query().Get("populate") == "categories"
		key := "brands"
		if populate {
			key = "brands:populated"
		}
		if cached, ok := h.cache.Get(key); ok {
			response.OK(w, cached)
			return
		}
		var brands []content.Brand
		if populate {
			brands = h.store.BrandsPopulated()
		} else {
			brands = h.store.Brands()
		}
		h.cache.Set(key, brands)
		response.OK(w, brands)

	case http.MethodPost:
		var b content.Brand
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			response.BadRequest(w, "Invalid brand payload", err.Error())
			return
		}
		created, err := h.store.CreateBrand(b)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.Created(w, created)

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleBrandByID serves GET, PUT and DELETE on /api/brands/{id}.
func (h *Handlers) HandleBrandByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		b, err := h.store.Brand(id)
		if err != nil {
			response.FromError(w, err)
			return
		}
		response.OK(w, b)

	case http.MethodPut:
		var b content.Brand
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			response.BadRequest(w, "Invalid brand payload", err.Error())
			return
		}
		updated, err := h.store.UpdateBrand(id, b)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, updated)

	case http.MethodDelete:
		if err := h.store.DeleteBrand(id); err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, map[string]string{"id": id})

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleCategories serves GET and POST on /api/categories. GET supports
// ?populate=brand.
func (h *Handlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		populate := r.URL.Query().Get("populate") == "brand"
		key := "categories"
		if populate {
			key = "categories:populated"
		}
		if cached, ok := h.cache.Get(key); ok {
			response.OK(w, cached)
			return
		}
		var cats []content.Category
		if populate {
			cats = h.store.CategoriesPopulated()
		} else {
			cats = h.store.Categories()
		}
		h.cache.Set(key, cats)
		response.OK(w, cats)

	case http.MethodPost:
		var c content.Category
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			response.BadRequest(w, "Invalid category payload", err.Error())
			return
		}
		created, err := h.store.CreateCategory(c)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.Created(w, created)

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleCategoryByID serves GET, PUT and DELETE on /api/categories/{id}.
func (h *Handlers) HandleCategoryByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		c, err := h.store.Category(id)
		if err != nil {
			response.FromError(w, err)
			return
		}
		response.OK(w, c)

	case http.MethodPut:
		var c content.Category
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			response.BadRequest(w, "Invalid category payload", err.Error())
			return
		}
		updated, err := h.store.UpdateCategory(id, c)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, updated)

	case http.MethodDelete:
		if err := h.store.DeleteCategory(id); err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, map[string]string{"id": id})

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleTestimonials serves GET and POST on /api/testimonials.
func (h *Handlers) HandleTestimonials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if cached, ok := h.cache.Get("testimonials"); ok {
			response.OK(w, cached)
			return
		}
		testimonials := h.store.Testimonials()
		h.cache.Set("testimonials", testimonials)
		response.OK(w, testimonials)

	case http.MethodPost:
		var tm content.Testimonial
		if err := json.NewDecoder(r.Body).Decode(&tm); err != nil {
			response.BadRequest(w, "Invalid testimonial payload", err.Error())
			return
		}
		created, err := h.store.CreateTestimonial(tm)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.Created(w, created)

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleTestimonialByID serves PUT and DELETE on /api/testimonials/{id}.
func (h *Handlers) HandleTestimonialByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPut:
		var tm content.Testimonial
		if err := json.NewDecoder(r.Body).Decode(&tm); err != nil {
			response.BadRequest(w, "Invalid testimonial payload", err.Error())
			return
		}
		updated, err := h.store.UpdateTestimonial(id, tm)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, updated)

	case http.MethodDelete:
		if err := h.store.DeleteTestimonial(id); err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, map[string]string{"id": id})

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleFeatures serves GET and POST on /api/features.
func (h *Handlers) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if cached, ok := h.cache.Get("features"); ok {
			response.OK(w, cached)
			return
		}
		features := h.store.Features()
		h.cache.Set("features", features)
		response.OK(w, features)

	case http.MethodPost:
		var f content.Feature
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			response.BadRequest(w, "Invalid feature payload", err.Error())
			return
		}
		created, err := h.store.CreateFeature(f)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.Created(w, created)

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleFeatureByID serves PUT and DELETE on /api/features/{id}.
func (h *Handlers) HandleFeatureByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPut:
		var f content.Feature
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			response.BadRequest(w, "Invalid feature payload", err.Error())
			return
		}
		updated, err := h.store.UpdateFeature(id, f)
		if err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, updated)

	case http.MethodDelete:
		if err := h.store.DeleteFeature(id); err != nil {
			response.FromError(w, err)
			return
		}
		h.invalidate()
		response.OK(w, map[string]string{"id": id})

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleSiteSetting serves GET and PUT on /api/site-setting.
func (h *Handlers) HandleSiteSetting(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		response.OK(w, h.store.SiteSetting())

	case http.MethodPut:
		var s content.SiteSetting
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			response.BadRequest(w, "Invalid site setting payload", err.Error())
			return
		}
		h.store.SetSiteSetting(s)
		h.invalidate()
		response.OK(w, s)

	default:
		response.MethodNotAllowed(w)
	}
}

// HandleHeroSection serves GET and PUT on /api/hero-section.
func (h *Handlers) HandleHeroSection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		response.OK(w, h.store.HeroSection())

	case http.MethodPut:
		var hero content.HeroSection
		if err := json.NewDecoder(r.Body).Decode(&hero); err != nil {
			response.BadRequest(w, "Invalid hero section payload", err.Error())
			return
		}
		h.store.SetHeroSection(hero)
		h.invalidate()
		response.OK(w, hero)

	default:
		response.MethodNotAllowed(w)
	}
}
