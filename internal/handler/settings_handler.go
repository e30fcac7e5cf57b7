package handler

import (
	"encoding/json"
	"net/http"

	"dastarkhan/internal/model"
	"dastarkhan/internal/service"

	"github.com/rs/zerolog"
)

// SettingsHandler handles restaurant configuration HTTP requests.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /api/settings requests. Absent settings come back as
// defaults, never as an error.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// Update handles PATCH /api/settings requests. Fields absent from the
// body are left untouched.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update model.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.Update(r.Context(), &update); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	settings, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}
