package model

import (
	"time"

	"github.com/google/uuid"
)

// Order types. Saboy is the point-of-sale path where payment is captured
// at creation; table and delivery go through the kitchen pipeline.
const (
	OrderTypeTable    = "table"
	OrderTypeDelivery = "delivery"
	OrderTypeSaboy    = "saboy"
)

// Order statuses. Transitions are advisory: any status may be written to
// any order. "paid" is the terminal state of the saboy path, "completed"
// ends the kitchen pipeline.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusPaid      = "paid"
)

// Order represents a customer order. Line items are price snapshots taken
// at creation, so later menu edits never change historical orders.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	OrderType       string      `json:"orderType" db:"order_type"`
	TableNumber     *string     `json:"tableNumber,omitempty" db:"table_number"`
	RoomNumber      *string     `json:"roomNumber,omitempty" db:"room_number"`
	DeliveryAddress *string     `json:"deliveryAddress,omitempty" db:"delivery_address"`
	Phone           *string     `json:"phone,omitempty" db:"phone"`
	Items           []OrderLine `json:"items"`
	Subtotal        float64     `json:"subtotal" db:"subtotal"`
	DeliveryFee     float64     `json:"deliveryFee" db:"delivery_fee"`
	ContainerCost   float64     `json:"containerCost" db:"container_cost"`
	Total           float64     `json:"total" db:"total"`
	Status          string      `json:"status" db:"status"`
	IsPaid          bool        `json:"isPaid" db:"is_paid"`
	WaiterID        *uuid.UUID  `json:"waiterId,omitempty" db:"waiter_id"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	PaidAt          *time.Time  `json:"paidAt,omitempty" db:"paid_at"`
}

// OrderLine is a snapshot of one ordered item.
type OrderLine struct {
	ID         uuid.UUID `json:"-" db:"id"`
	OrderID    uuid.UUID `json:"-" db:"order_id"`
	MenuItemID string    `json:"menuItemId" db:"menu_item_id"`
	Name       string    `json:"name" db:"name"`
	Price      float64   `json:"price" db:"price"`
	Quantity   int       `json:"quantity" db:"quantity"`
}

// EffectiveTime returns the timestamp shown on receipts and listings:
// the payment time when present, the creation time otherwise.
func (o *Order) EffectiveTime() time.Time {
	if o.PaidAt != nil {
		return *o.PaidAt
	}
	return o.CreatedAt
}

// OrderRequest represents the checkout payload. Item prices are resolved
// server-side; the client only names items and quantities.
type OrderRequest struct {
	OrderType       string             `json:"orderType"`
	TableNumber     *string            `json:"tableNumber,omitempty"`
	RoomNumber      *string            `json:"roomNumber,omitempty"`
	DeliveryAddress *string            `json:"deliveryAddress,omitempty"`
	Phone           *string            `json:"phone,omitempty"`
	WaiterID        *uuid.UUID         `json:"waiterId,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

// OrderItemRequest is a single line in a checkout request.
type OrderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// ArchivedOrder is an order moved into history, annotated with who removed
// it from the active collection and when.
type ArchivedOrder struct {
	Order
	DeletedAt time.Time `json:"deletedAt" db:"deleted_at"`
	DeletedBy string    `json:"deletedBy" db:"deleted_by"`
}

// OrderStats summarises the active collection for the admin dashboard.
type OrderStats struct {
	CountByStatus map[string]int `json:"countByStatus"`
	OrdersToday   int            `json:"ordersToday"`
	RevenueToday  float64        `json:"revenueToday"`
}
