package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/repository"
	"github.com/ErbolTakhirov/Abak-market/internal/service"
	"github.com/ErbolTakhirov/Abak-market/pkg/httputil"
	"github.com/ErbolTakhirov/Abak-market/pkg/pagination"
)

// CatalogHandler handles HTTP requests for plain catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := repository.ProductFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("category")); v != "" {
		filter.CategorySlug = &v
	}
	if r.URL.Query().Get("featured") == "true" {
		filter.OnlyFeatured = true
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(products, total, params.Page, params.PerPage),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetProductBySlug handles GET /api/v1/products/slug/{slug}
func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.service.GetProductBySlug(r.Context(), slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// IncrementView handles POST /api/v1/products/{id}/view
func (h *CatalogHandler) IncrementView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.IncrementView(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id, "status": "counted"}})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string][]domain.Category{"categories": categories}})
}
