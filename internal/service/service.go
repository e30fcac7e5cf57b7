package service

import (
	"context"

	"dastarkhan/internal/model"

	"github.com/google/uuid"
)

// MenuService defines operations on the customer-facing catalogue.
type MenuService interface {
	// Menu retrieves the items eligible for display.
	Menu(ctx context.Context) ([]model.MenuItem, error)

	// Categories retrieves all menu categories.
	Categories(ctx context.Context) ([]model.Category, error)

	// SetAvailability flips an item's current availability flag.
	SetAvailability(ctx context.Context, id string, available bool) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// Create checks out a cart into a new order.
	Create(ctx context.Context, req *model.OrderRequest, deviceID string) (*model.Order, error)

	// Get retrieves an order, checking the active collection first and
	// history second.
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// UpdateStatus writes an advisory status to an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// MarkPaid flags an order as paid now.
	MarkPaid(ctx context.Context, id uuid.UUID) error

	// Archive moves an order into history on behalf of actor.
	Archive(ctx context.Context, id uuid.UUID, actor string) error

	// Stats summarises the active collection.
	Stats(ctx context.Context) (*model.OrderStats, error)
}

// SettingsService defines access to restaurant configuration.
type SettingsService interface {
	// Get reads the settings, defaults applied.
	Get(ctx context.Context) (*model.DeliverySettings, error)

	// Update merges a partial settings write.
	Update(ctx context.Context, update *model.SettingsUpdate) error
}

// UserService defines staff account administration.
type UserService interface {
	// Create registers a new staff account.
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)

	// Delete removes a staff account. Actors cannot delete themselves.
	Delete(ctx context.Context, actorID, targetID uuid.UUID) error

	// UpdatePassword resets a staff account's password.
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) error

	// GetByID retrieves a staff account, or nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
