package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dastarkhan/internal/events"
	"dastarkhan/internal/handler"
	"dastarkhan/internal/model"
	"dastarkhan/internal/repository"
	"dastarkhan/internal/router"
	"dastarkhan/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newServer builds the full HTTP stack against the test database, with
// RabbitMQ, S3 and the print bridge all absent.
func newServer(t *testing.T, db *TestDB) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()

	menuRepo := repository.NewMenuRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)
	settingsRepo := repository.NewSettingsRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	deviceRepo := repository.NewDeviceRepository(db.Pool, logger)

	publisher := events.NopPublisher{}
	menuService := service.NewMenuService(menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, menuRepo, settingsRepo, deviceRepo, publisher, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	userService := service.NewUserService(userRepo, logger)

	tracker := events.NewTracker(publisher.Sound, logger)
	tracker.Seed(context.Background(), orderRepo.ListActive)

	mux := router.New(
		handler.NewMenuHandler(menuService, logger),
		handler.NewOrderHandler(orderService, userService, tracker, nil, logger),
		handler.NewSettingsHandler(settingsService, logger),
		handler.NewAdminHandler(userService, logger),
		handler.NewUploadHandler(nil, logger),
		userRepo,
		"",
		logger,
	)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// seedAdmin inserts an admin account with a known session token.
func seedAdmin(t *testing.T, db *TestDB, token string) uuid.UUID {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	id := uuid.New()
	_, err = db.Pool.Exec(context.Background(), `
		INSERT INTO users (id, email, name, role, password_hash, session_token)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, "admin@dastarkhan.kz", "Admin", model.RoleAdmin, string(hash), token)
	require.NoError(t, err)
	return id
}

func doRequest(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAPI_MenuAndOrderFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	seedCatalogue(t, db)
	srv := newServer(t, db)

	// Menu lists the seeded items.
	resp := doRequest(t, http.MethodGet, srv.URL+"/api/menu", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []model.MenuItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Len(t, items, 3)

	// Checkout a table order.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/orders", "",
		`{"orderType":"table","tableNumber":"2","items":[{"menuItemId":"M001","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order model.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, 38000.0, order.Total)

	// Move it through the pipeline and fetch the receipt.
	resp = doRequest(t, http.MethodPatch, srv.URL+"/api/orders/"+order.ID.String()+"/status", "",
		`{"status":"ready"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/orders/"+order.ID.String()+"/receipt", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestAPI_AdminGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	srv := newServer(t, db)
	adminID := seedAdmin(t, db, "tok-admin")

	t.Run("stats requires a session token", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, srv.URL+"/api/admin/stats", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = doRequest(t, http.MethodGet, srv.URL+"/api/admin/stats", "tok-admin", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("waiter token is forbidden", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/admin/users", "tok-admin",
			`{"email":"aliya@dastarkhan.kz","password":"s3cret-pass","name":"Aliya","role":"waiter"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var waiter model.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&waiter))

		_, err := db.Pool.Exec(context.Background(),
			`UPDATE users SET session_token = 'tok-waiter' WHERE id = $1`, waiter.ID)
		require.NoError(t, err)

		resp = doRequest(t, http.MethodGet, srv.URL+"/api/admin/stats", "tok-waiter", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/admin/users", "tok-admin",
			`{"email":"aliya@dastarkhan.kz","password":"another-pass","role":"waiter"}`)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("self-delete is forbidden and has no effect", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, srv.URL+"/api/admin/users/"+adminID.String(), "tok-admin", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var count int
		require.NoError(t, db.Pool.QueryRow(context.Background(),
			`SELECT COUNT(*) FROM users WHERE id = $1`, adminID).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("settings update goes through the gate", func(t *testing.T) {
		resp := doRequest(t, http.MethodPatch, srv.URL+"/api/settings", "",
			`{"deliveryFee":12000}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = doRequest(t, http.MethodPatch, srv.URL+"/api/settings", "tok-admin",
			`{"deliveryFee":12000}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var settings model.DeliverySettings
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
		assert.Equal(t, 12000.0, settings.DeliveryFee)
	})
}
