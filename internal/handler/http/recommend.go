package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ErbolTakhirov/Abak-market/internal/service"
	"github.com/ErbolTakhirov/Abak-market/pkg/httputil"
)

const (
	defaultPopularLimit = 8
	maxPopularLimit     = 20
	defaultSimilarLimit = 4
	maxSimilarLimit     = 10
)

// RecommendHandler handles HTTP requests for recommendation endpoints.
type RecommendHandler struct {
	service *service.RecommendService
	logger  *slog.Logger
}

// NewRecommendHandler creates a new recommendation HTTP handler.
func NewRecommendHandler(svc *service.RecommendService, logger *slog.Logger) *RecommendHandler {
	return &RecommendHandler{service: svc, logger: logger}
}

// Popular handles GET /api/v1/recommendations/popular
func (h *RecommendHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultPopularLimit, maxPopularLimit)

	var excludeIDs []string
	if v := r.URL.Query().Get("exclude"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				excludeIDs = append(excludeIDs, id)
			}
		}
	}

	products, err := h.service.Popular(r.Context(), limit, excludeIDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Similar handles GET /api/v1/products/{id}/similar
func (h *RecommendHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := parseLimit(r, defaultSimilarLimit, maxSimilarLimit)

	products, err := h.service.Similar(r.Context(), id, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// New handles GET /api/v1/recommendations/new
func (h *RecommendHandler) New(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultPopularLimit, maxPopularLimit)

	products, err := h.service.New(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Promotional handles GET /api/v1/recommendations/promotional
func (h *RecommendHandler) Promotional(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultPopularLimit, maxPopularLimit)

	products, err := h.service.Promotional(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}
