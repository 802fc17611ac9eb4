package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ErbolTakhirov/Abak-market/internal/service"
	"github.com/ErbolTakhirov/Abak-market/pkg/httputil"
)

// Limits enforced at the HTTP boundary; the engine itself treats limit as a
// soft cap supplied by its caller.
const (
	defaultSearchLimit  = 50
	maxSearchLimit      = 100
	defaultSuggestLimit = 8
	maxSuggestLimit     = 20
)

// SearchHandler handles HTTP requests for search and autocomplete.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: svc, logger: logger}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	limit := parseLimit(r, defaultSearchLimit, maxSearchLimit)

	result, err := h.service.Search(r.Context(), query, category, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Suggest handles GET /api/v1/search/suggest
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	prefix := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := parseLimit(r, defaultSuggestLimit, maxSuggestLimit)

	suggestions, err := h.service.Suggest(r.Context(), prefix, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: suggestions})
}

// parseLimit reads the limit query parameter, falling back to def and
// capping at max.
func parseLimit(r *http.Request, def, max int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
