package handler

import (
	"net/http"

	"dastarkhan/internal/model"
	"dastarkhan/internal/upload"

	"github.com/rs/zerolog"
)

// maxUploadSize caps menu image uploads at 10 MiB.
const maxUploadSize = 10 << 20

// UploadHandler handles menu image uploads.
type UploadHandler struct {
	uploader upload.Uploader
	logger   zerolog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploader upload.Uploader, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /api/admin/uploads requests. Expects a multipart
// form with the image under the "file" field and responds with the public
// URL the image is served from.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, model.ErrCodeInternalError, "uploads are not configured", h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid multipart form", h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "file field is required", h.logger)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.uploader.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to store file", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
