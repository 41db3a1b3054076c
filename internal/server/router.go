package server

import (
	"net/http"
	"strings"

	"github.com/verdantlabs/verdant/internal/server/handlers"
	"github.com/verdantlabs/verdant/internal/server/middleware"
	"github.com/verdantlabs/verdant/internal/telemetry"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.store, s.cache, s.bus.SubscriberCount, s.logger)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("/_health", h.HandleHealth)
	mux.HandleFunc("/api/_health", h.HandleHealth)
	mux.HandleFunc("/api/_ready", h.HandleReady)

	// Collection endpoints
	mux.HandleFunc("/api/products", h.HandleProducts)
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		id := extractPathParam(r.URL.Path, "/api/products/")
		if id == "" {
			http.Error(w, "Product ID required", http.StatusBadRequest)
			return
		}
		h.HandleProductByID(w, r, id)
	})

	mux.HandleFunc("/api/brands", h.HandleBrands)
	mux.HandleFunc("/api/brands/", func(w http.ResponseWriter, r *http.Request) {
		id := extractPathParam(r.URL.Path, "/api/brands/")
		if id == "" {
			http.Error(w, "Brand ID required", http.StatusBadRequest)
			return
		}
		h.HandleBrandByID(w, r, id)
	})

	mux.HandleFunc("/api/categories", h.HandleCategories)
	mux.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		id := extractPathParam(r.URL.Path, "/api/categories/")
		if id == "" {
			http.Error(w, "Category ID required", http.StatusBadRequest)
			return
		}
		h.HandleCategoryByID(w, r, id)
	})

	mux.HandleFunc("/api/testimonials", h.HandleTestimonials)
	mux.HandleFunc("/api/testimonials/", func(w http.ResponseWriter, r *http.Request) {
		id := extractPathParam(r.URL.Path, "/api/testimonials/")
		if id == "" {
			http.Error(w, "Testimonial ID required", http.StatusBadRequest)
			return
		}
		h.HandleTestimonialByID(w, r, id)
	})

	mux.HandleFunc("/api/features", h.HandleFeatures)
	mux.HandleFunc("/api/features/", func(w http.ResponseWriter, r *http.Request) {
		id := extractPathParam(r.URL.Path, "/api/features/")
		if id == "" {
			http.Error(w, "Feature ID required", http.StatusBadRequest)
			return
		}
		h.HandleFeatureByID(w, r, id)
	})

	// Single-type endpoints
	mux.HandleFunc("/api/site-setting", h.HandleSiteSetting)
	mux.HandleFunc("/api/hero-section", h.HandleHeroSection)

	// Real-time endpoints
	mux.HandleFunc("/api/events", s.sseHandler.ServeHTTP)
	mux.HandleFunc("/api/events/ws", s.handleWebSocket)

	// Metrics endpoint (optional)
	if s.config.MetricsEnabled {
		mux.Handle("/metrics", telemetry.Handler())
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// extractPathParam extracts the first path segment after prefix.
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	parts := strings.Split(trimmed, "/")
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}
