package integration

import (
	"context"
	"testing"

	"dastarkhan/internal/events"
	"dastarkhan/internal/model"
	"dastarkhan/internal/repository"
	"dastarkhan/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// services wires real repositories against the test database.
type services struct {
	orders   service.OrderService
	menu     service.MenuService
	settings service.SettingsService

	orderRepo repository.OrderRepository
}

func newServices(db *TestDB) *services {
	logger := zerolog.Nop()
	menuRepo := repository.NewMenuRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)
	settingsRepo := repository.NewSettingsRepository(db.Pool, logger)
	deviceRepo := repository.NewDeviceRepository(db.Pool, logger)

	return &services{
		orders:    service.NewOrderService(orderRepo, menuRepo, settingsRepo, deviceRepo, events.NopPublisher{}, logger),
		menu:      service.NewMenuService(menuRepo, logger),
		settings:  service.NewSettingsService(settingsRepo, logger),
		orderRepo: orderRepo,
	}
}

func seedCatalogue(t *testing.T, db *TestDB) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ('C001', 'Mains')`)
	require.NoError(t, err)

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, price, category_id, servings_left, needs_container, container_price)
		VALUES
			('M001', 'Beshbarmak', 38000, 'C001', NULL, FALSE, 0),
			('M002', 'Shorpa', 16000, 'C001', 3, TRUE, 1500),
			('M003', 'Plov', 24000, 'C001', 10, TRUE, 0)`)
	require.NoError(t, err)
}

func servingsLeft(t *testing.T, db *TestDB, itemID string) *int {
	t.Helper()
	var left *int
	err := db.Pool.QueryRow(context.Background(),
		`SELECT servings_left FROM menu_items WHERE id = $1`, itemID).Scan(&left)
	require.NoError(t, err)
	return left
}

func TestCheckout_TableOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	seedCatalogue(t, db)
	svc := newServices(db)
	ctx := context.Background()

	table := "7"
	order, err := svc.orders.Create(ctx, &model.OrderRequest{
		OrderType:   model.OrderTypeTable,
		TableNumber: &table,
		Items: []model.OrderItemRequest{
			{MenuItemID: "M001", Quantity: 2},
			{MenuItemID: "M002", Quantity: 1},
		},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 92000.0, order.Subtotal)
	assert.Equal(t, 92000.0, order.Total)
	assert.Equal(t, model.StatusPending, order.Status)

	// The counter moved inside the checkout transaction.
	left := servingsLeft(t, db, "M002")
	require.NotNil(t, left)
	assert.Equal(t, 2, *left)

	// Unlimited items keep their NULL counter.
	assert.Nil(t, servingsLeft(t, db, "M001"))

	got, err := svc.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Len(t, got.Items, 2)
}

func TestCheckout_InsufficientServingsRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	seedCatalogue(t, db)
	svc := newServices(db)
	ctx := context.Background()

	_, err := svc.orders.Create(ctx, &model.OrderRequest{
		OrderType: model.OrderTypeSaboy,
		Items: []model.OrderItemRequest{
			{MenuItemID: "M001", Quantity: 1},
			{MenuItemID: "M002", Quantity: 5},
		},
	}, "")
	require.ErrorIs(t, err, model.ErrInsufficientServings)

	// Nothing was written: no order rows, counter untouched.
	var orderCount int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orderCount))
	assert.Zero(t, orderCount)

	var itemCount int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items`).Scan(&itemCount))
	assert.Zero(t, itemCount)

	left := servingsLeft(t, db, "M002")
	require.NotNil(t, left)
	assert.Equal(t, 3, *left)
}

func TestCheckout_DeliveryUsesUpdatedSettings(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	seedCatalogue(t, db)
	svc := newServices(db)
	ctx := context.Background()

	fee := 9000.0
	containerPrice := 1000.0
	require.NoError(t, svc.settings.Update(ctx, &model.SettingsUpdate{
		DeliveryFee:    &fee,
		ContainerPrice: &containerPrice,
	}))

	addr := "Abay 12"
	order, err := svc.orders.Create(ctx, &model.OrderRequest{
		OrderType:       model.OrderTypeDelivery,
		DeliveryAddress: &addr,
		Items: []model.OrderItemRequest{
			{MenuItemID: "M002", Quantity: 1},
			{MenuItemID: "M003", Quantity: 2},
		},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 64000.0, order.Subtotal)
	assert.Equal(t, 9000.0, order.DeliveryFee)
	// M002 has its own container price, M003 falls back to settings.
	assert.Equal(t, 3500.0, order.ContainerCost)
	assert.Equal(t, 76500.0, order.Total)

	// Fields not named in the update kept their defaults.
	settings, err := svc.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDeliveryTime, settings.DeliveryTime)
	assert.True(t, settings.DeliveryAvailable)
}

func TestArchive_MovesOrderIntoHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	seedCatalogue(t, db)
	svc := newServices(db)
	ctx := context.Background()

	order, err := svc.orders.Create(ctx, &model.OrderRequest{
		OrderType: model.OrderTypeSaboy,
		Items:     []model.OrderItemRequest{{MenuItemID: "M001", Quantity: 1}},
	}, "")
	require.NoError(t, err)
	assert.True(t, order.IsPaid)

	require.NoError(t, svc.orders.Archive(ctx, order.ID, "admin@dastarkhan.kz"))

	// Gone from the active collection.
	active, err := svc.orderRepo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Still resolvable through the fallback lookup, items intact.
	got, err := svc.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Beshbarmak", got.Items[0].Name)

	var deletedBy string
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT deleted_by FROM order_history WHERE id = $1`, order.ID).Scan(&deletedBy))
	assert.Equal(t, "admin@dastarkhan.kz", deletedBy)
}

func TestCheckout_BlockedDevice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	seedCatalogue(t, db)
	svc := newServices(db)
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO blocked_devices (device_id, reason) VALUES ('device-bad', 'abuse')`)
	require.NoError(t, err)

	_, err = svc.orders.Create(ctx, &model.OrderRequest{
		OrderType: model.OrderTypeSaboy,
		Items:     []model.OrderItemRequest{{MenuItemID: "M001", Quantity: 1}},
	}, "device-bad")
	assert.ErrorIs(t, err, model.ErrDeviceBlocked)
}
