package handler

import (
	"encoding/json"
	"net/http"

	"dastarkhan/internal/events"
	"dastarkhan/internal/middleware"
	"dastarkhan/internal/model"
	"dastarkhan/internal/receipt"
	"dastarkhan/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// validStatuses are the statuses the kitchen pipeline understands.
// Transitions between them are advisory.
var validStatuses = map[string]bool{
	model.StatusPending:   true,
	model.StatusPreparing: true,
	model.StatusReady:     true,
	model.StatusCompleted: true,
	model.StatusPaid:      true,
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	orders  service.OrderService
	users   service.UserService
	tracker *events.Tracker
	printer receipt.Printer
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler. printer may be nil when no
// print bridge is configured; receipts are then returned for the caller to
// print.
func NewOrderHandler(
	orders service.OrderService,
	users service.UserService,
	tracker *events.Tracker,
	printer receipt.Printer,
	logger zerolog.Logger,
) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		users:   users,
		tracker: tracker,
		printer: printer,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.Create(r.Context(), &req, r.Header.Get("X-Device-ID"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Get handles GET /api/orders/{id} requests. Archived orders are served
// the same as active ones.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if !validStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "unknown status", h.logger)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// MarkPaid handles PATCH /api/orders/{id}/paid requests.
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.orders.MarkPaid(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"isPaid": true})
}

// Archive handles DELETE /api/orders/{id} requests. The order moves into
// history attributed to the acting admin.
func (h *OrderHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	actor := "unknown"
	if user := middleware.UserFromContext(r.Context()); user != nil {
		actor = user.Email
	}

	if err := h.orders.Archive(r.Context(), id, actor); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"archived": true})
}

// Receipt handles GET /api/orders/{id}/receipt requests. With ?print=true
// and a configured print bridge the rendered receipt is posted to the
// bridge; otherwise the HTML comes back for the caller to print.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	waiterName := ""
	if order.WaiterID != nil {
		waiter, err := h.users.GetByID(r.Context(), *order.WaiterID)
		if err != nil {
			h.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to resolve waiter for receipt")
		} else if waiter != nil {
			waiterName = waiter.Name
		}
	}

	html := receipt.Render(order, waiterName)

	if r.URL.Query().Get("print") == "true" && h.printer != nil {
		if err := h.printer.Print(r.Context(), html); err != nil {
			h.logger.Error().Err(err).Str("order_id", id.String()).Msg("print dispatch failed")
			writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "print bridge unavailable", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"printed": true})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// Live handles GET /api/admin/orders/live requests, serving the tracker's
// in-memory mirror filtered by the status query parameter.
func (h *OrderHandler) Live(w http.ResponseWriter, r *http.Request) {
	orders := h.tracker.View(r.URL.Query().Get("status"))
	writeJSON(w, http.StatusOK, orders)
}

// Stats handles GET /api/admin/stats requests.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// orderID parses the {id} path segment. A false return means the error
// response has been written.
func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
