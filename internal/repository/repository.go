package repository

import (
	"context"
	"time"

	"dastarkhan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MenuRepository defines data access for menu items and categories.
type MenuRepository interface {
	// ListItems retrieves the whole catalogue ordered by name.
	ListItems(ctx context.Context) ([]model.MenuItem, error)

	// GetByIDs retrieves menu items by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error)

	// DecrementServings atomically decrements an item's remaining-servings
	// counter by qty within the given transaction. Items with a NULL
	// counter are unlimited and always succeed. Returns false when the
	// counter would go negative; nothing is written in that case.
	DecrementServings(ctx context.Context, tx pgx.Tx, itemID string, qty int) (bool, error)

	// SetAvailability updates the current availability flag.
	SetAvailability(ctx context.Context, id string, available bool) (bool, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// OrderRepository defines data access for active and archived orders.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line snapshots within the
	// provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderLine) error

	// GetByID retrieves an active order with its items. Returns nil when
	// no such order exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetArchivedByID retrieves an order from history. Returns nil when
	// no such order exists.
	GetArchivedByID(ctx context.Context, id uuid.UUID) (*model.ArchivedOrder, error)

	// ListActive retrieves all active orders, newest first, with items.
	ListActive(ctx context.Context) ([]model.Order, error)

	// UpdateStatus writes a status to an order. Transitions are advisory;
	// any status may be written. Returns false when the order is missing.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)

	// MarkPaid flags an order as paid at the given time. Returns false
	// when the order is missing.
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// Archive moves an order and its item snapshot into history and
	// removes it from the active table in a single transaction. Returns
	// false when the order is missing.
	Archive(ctx context.Context, id uuid.UUID, deletedBy string) (bool, error)

	// Stats summarises the active table for the dashboard.
	Stats(ctx context.Context, dayStart time.Time) (*model.OrderStats, error)
}

// SettingsRepository defines access to the singleton settings row.
type SettingsRepository interface {
	// Get reads the settings. Missing row or missing fields fall back to
	// defaults; Get never fails on absence.
	Get(ctx context.Context) (*model.DeliverySettings, error)

	// Update merges a partial update into the row. Nil fields are left
	// untouched.
	Update(ctx context.Context, update *model.SettingsUpdate) error
}

// UserRepository defines data access for staff accounts.
type UserRepository interface {
	// GetByToken resolves a session token to a user. Returns nil when the
	// token is unknown.
	GetByToken(ctx context.Context, token string) (*model.User, error)

	// GetByID retrieves a user. Returns nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Create inserts a new user. Returns model.ErrEmailTaken on a
	// duplicate email.
	Create(ctx context.Context, user *model.User) error

	// Delete removes a user. Returns false when missing.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// UpdatePassword replaces a user's password hash. Returns false when
	// missing.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (bool, error)
}

// DeviceRepository defines access to the blocked-device list.
type DeviceRepository interface {
	// IsBlocked reports whether the device may not place orders.
	IsBlocked(ctx context.Context, deviceID string) (bool, error)
}
