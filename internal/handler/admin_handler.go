package handler

import (
	"encoding/json"
	"net/http"

	"dastarkhan/internal/middleware"
	"dastarkhan/internal/model"
	"dastarkhan/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler handles staff account administration. Authorization happens
// in middleware.AdminOnly; these handlers only act on already-verified
// requests.
type AdminHandler struct {
	users  service.UserService
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users service.UserService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateUser handles POST /api/admin/users requests.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	user, err := h.users.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/admin/users/{id} requests.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid user ID format", h.logger)
		return
	}

	actor := middleware.UserFromContext(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "no authenticated user", h.logger)
		return
	}

	if err := h.users.Delete(r.Context(), actor.ID, targetID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// UpdatePassword handles PUT /api/admin/users/{id}/password requests.
func (h *AdminHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid user ID format", h.logger)
		return
	}

	var req model.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), id, req.Password); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}
