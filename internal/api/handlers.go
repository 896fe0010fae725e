package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/exampledeck/internal/apperr"
	"github.com/starford/exampledeck/internal/catalog"
)

// Handler holds API route handlers.
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps catalog errors onto HTTP statuses. op names the failed
// operation in the log line for unexpected errors.
func writeError(w http.ResponseWriter, op string, err error, attrs ...any) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrNotBuilt):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("examples have not been built yet"))
	case errors.Is(err, apperr.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("search index is disabled"))
	default:
		slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// Manifest handles GET /api/manifest.
//
//	@Summary		Get the current manifest
//	@Tags			examples
//	@Produce		json
//	@Success		200	{object}	manifest.Manifest
//	@Failure		503	{object}	errResponse
//	@Router			/manifest [get]
func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Manifest(r.Context())
	if err != nil {
		writeError(w, "manifest", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ListExamples handles GET /api/examples.
//
//	@Summary		List examples, optionally within one category
//	@Tags			examples
//	@Produce		json
//	@Param			category	query		string	false	"Filter by category"
//	@Success		200			{object}	ExampleListResponse
//	@Failure		503			{object}	errResponse
//	@Router			/examples [get]
func (h *Handler) ListExamples(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	items, err := h.svc.List(r.Context(), category)
	if err != nil {
		writeError(w, "list examples", err, slog.String("category", category))
		return
	}
	writeJSON(w, http.StatusOK, ExampleListResponse{Examples: items, Total: len(items)})
}

// GetExample handles GET /api/examples/{slug}.
//
//	@Summary		Get a single example by slug
//	@Tags			examples
//	@Produce		json
//	@Param			slug	path		string	true	"Example slug"
//	@Success		200		{object}	ExampleDetail
//	@Failure		404		{object}	errResponse
//	@Router			/examples/{slug} [get]
func (h *Handler) GetExample(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	rec, err := h.svc.Get(r.Context(), slug)
	if err != nil {
		writeError(w, "get example", err, slog.String("slug", slug))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Categories handles GET /api/categories.
//
//	@Summary		List categories with example counts
//	@Tags			examples
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, "categories", err)
		return
	}
	if cats == nil {
		cats = []CategoryCount{}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across examples
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	if results == nil {
		results = []SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Ready reports whether a manifest has been built. It is mounted outside
// /api as the readiness probe.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Manifest(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not built"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
