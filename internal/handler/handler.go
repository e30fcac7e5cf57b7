package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dastarkhan/internal/model"

	"github.com/rs/zerolog"
)

// statusByCode maps domain error codes to HTTP statuses. Codes absent from
// the map fall through to 500.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:          http.StatusBadRequest,
	model.ErrCodeMissingField:         http.StatusBadRequest,
	model.ErrCodeMenuItemNotFound:     http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:      http.StatusBadRequest,
	model.ErrCodeInvalidOrderType:     http.StatusBadRequest,
	model.ErrCodeInvalidSeating:       http.StatusBadRequest,
	model.ErrCodeMissingAddress:       http.StatusBadRequest,
	model.ErrCodeInvalidRole:          http.StatusBadRequest,
	model.ErrCodePasswordTooShort:     http.StatusBadRequest,
	model.ErrCodeItemUnavailable:      http.StatusConflict,
	model.ErrCodeInsufficientServings: http.StatusConflict,
	model.ErrCodeDeliveryUnavailable:  http.StatusConflict,
	model.ErrCodeEmailTaken:           http.StatusConflict,
	model.ErrCodeDeviceBlocked:        http.StatusForbidden,
	model.ErrCodeSelfDelete:           http.StatusForbidden,
	model.ErrCodeForbidden:            http.StatusForbidden,
	model.ErrCodeUnauthorised:         http.StatusUnauthorized,
	model.ErrCodeOrderNotFound:        http.StatusNotFound,
	model.ErrCodeUserNotFound:         http.StatusNotFound,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are gone already; nothing useful left to do.
		return
	}
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service failure to an HTTP response. Domain
// errors keep their code and message; anything else becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	// Validation failures from the service layer arrive as plain errors.
	msg := err.Error()
	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "must contain") ||
		strings.Contains(msg, "cannot be negative") ||
		strings.Contains(msg, "carries no fields") ||
		strings.Contains(msg, "is nil") {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, msg, logger)
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}
