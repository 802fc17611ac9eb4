package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ErbolTakhirov/Abak-market/internal/domain"
	"github.com/ErbolTakhirov/Abak-market/internal/service"
	"github.com/ErbolTakhirov/Abak-market/pkg/httputil"
	"github.com/ErbolTakhirov/Abak-market/pkg/validator"
)

// SynonymHandler handles HTTP requests for synonym administration.
type SynonymHandler struct {
	service *service.SynonymService
	logger  *slog.Logger
}

// NewSynonymHandler creates a new synonym HTTP handler.
func NewSynonymHandler(svc *service.SynonymService, logger *slog.Logger) *SynonymHandler {
	return &SynonymHandler{service: svc, logger: logger}
}

// CreateSynonymRequest is the JSON request body for registering a synonym pair.
type CreateSynonymRequest struct {
	Term      string `json:"term" validate:"required,min=2,max=100"`
	Alternate string `json:"alternate" validate:"required,min=2,max=100"`
}

// List handles GET /api/v1/admin/synonyms
func (h *SynonymHandler) List(w http.ResponseWriter, r *http.Request) {
	synonyms, err := h.service.ListSynonyms(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string][]domain.SearchSynonym{"synonyms": synonyms}})
}

// Create handles POST /api/v1/admin/synonyms
func (h *SynonymHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateSynonymRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	syn, err := h.service.AddSynonym(r.Context(), req.Term, req.Alternate)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: syn})
}

// Delete handles DELETE /api/v1/admin/synonyms/{id}
func (h *SynonymHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.RemoveSynonym(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id, "status": "deleted"}})
}
