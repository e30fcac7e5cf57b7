package handler

import (
	"encoding/json"
	"net/http"

	"dastarkhan/internal/model"
	"dastarkhan/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles catalogue HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// Menu handles GET /api/menu requests.
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Menu(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Categories handles GET /api/categories requests.
func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// SetAvailability handles PATCH /api/admin/menu/{id}/availability requests.
func (h *MenuHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "menu item ID is required", h.logger)
		return
	}

	var req struct {
		Available *bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Available == nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "available flag is required", h.logger)
		return
	}

	if err := h.service.SetAvailability(r.Context(), id, *req.Available); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"available": *req.Available})
}
