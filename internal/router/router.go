package router

import (
	"net/http"

	"dastarkhan/internal/handler"
	"dastarkhan/internal/middleware"
	"dastarkhan/internal/repository"

	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// Admin routes share a single authorization gate that resolves the bearer
// session token and requires the admin role.
func New(
	menuHandler *handler.MenuHandler,
	orderHandler *handler.OrderHandler,
	settingsHandler *handler.SettingsHandler,
	adminHandler *handler.AdminHandler,
	uploadHandler *handler.UploadHandler,
	userRepo repository.UserRepository,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Customer-facing routes
	mux.HandleFunc("GET /api/menu", menuHandler.Menu)
	mux.HandleFunc("GET /api/categories", menuHandler.Categories)
	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.Get)
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)

	// Staff routes
	mux.HandleFunc("PATCH /api/orders/{id}/status", orderHandler.UpdateStatus)
	mux.HandleFunc("PATCH /api/orders/{id}/paid", orderHandler.MarkPaid)
	mux.HandleFunc("GET /api/orders/{id}/receipt", orderHandler.Receipt)

	// Admin routes behind the shared session-token gate
	admin := middleware.AdminOnly(userRepo, logger)
	mux.Handle("DELETE /api/orders/{id}", admin(http.HandlerFunc(orderHandler.Archive)))
	mux.Handle("GET /api/admin/orders/live", admin(http.HandlerFunc(orderHandler.Live)))
	mux.Handle("GET /api/admin/stats", admin(http.HandlerFunc(orderHandler.Stats)))
	mux.Handle("PATCH /api/settings", admin(http.HandlerFunc(settingsHandler.Update)))
	mux.Handle("PATCH /api/admin/menu/{id}/availability", admin(http.HandlerFunc(menuHandler.SetAvailability)))
	mux.Handle("POST /api/admin/users", admin(http.HandlerFunc(adminHandler.CreateUser)))
	mux.Handle("DELETE /api/admin/users/{id}", admin(http.HandlerFunc(adminHandler.DeleteUser)))
	mux.Handle("PUT /api/admin/users/{id}/password", admin(http.HandlerFunc(adminHandler.UpdatePassword)))
	mux.Handle("POST /api/admin/uploads", admin(http.HandlerFunc(uploadHandler.Upload)))

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
