package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/exampledeck/internal/catalog"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *catalog.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Build output.
	r.Get("/manifest", h.Manifest)
	r.Get("/examples", h.ListExamples)
	r.Get("/examples/{slug}", h.GetExample)
	r.Get("/categories", h.Categories)

	// Search.
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
