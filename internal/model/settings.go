package model

import "time"

// Fallback values used when the settings row is missing a field. Reads
// never fail on absent settings; they default.
const (
	DefaultDeliveryFee       = 15000
	DefaultDeliveryTime      = "45-60"
	DefaultDeliveryRadiusKM  = 5
	DefaultContainerPrice    = 2000
	DefaultDeliveryAvailable = true
)

// DeliverySettings is the singleton restaurant configuration document.
type DeliverySettings struct {
	DeliveryAvailable bool      `json:"deliveryAvailable" db:"delivery_available"`
	DeliveryFee       float64   `json:"deliveryFee" db:"delivery_fee"`
	DeliveryTime      string    `json:"deliveryTime" db:"delivery_time"`
	DeliveryRadiusKM  float64   `json:"deliveryRadiusKm" db:"delivery_radius_km"`
	Phone             string    `json:"phone" db:"phone"`
	ContainerPrice    float64   `json:"containerPrice" db:"container_price"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultSettings returns the configuration used before anything has been
// saved.
func DefaultSettings() *DeliverySettings {
	return &DeliverySettings{
		DeliveryAvailable: DefaultDeliveryAvailable,
		DeliveryFee:       DefaultDeliveryFee,
		DeliveryTime:      DefaultDeliveryTime,
		DeliveryRadiusKM:  DefaultDeliveryRadiusKM,
		ContainerPrice:    DefaultContainerPrice,
	}
}

// SettingsUpdate is a partial settings write. Nil fields are left
// untouched so concurrent editors cannot clobber each other's fields.
type SettingsUpdate struct {
	DeliveryAvailable *bool    `json:"deliveryAvailable,omitempty"`
	DeliveryFee       *float64 `json:"deliveryFee,omitempty"`
	DeliveryTime      *string  `json:"deliveryTime,omitempty"`
	DeliveryRadiusKM  *float64 `json:"deliveryRadiusKm,omitempty"`
	Phone             *string  `json:"phone,omitempty"`
	ContainerPrice    *float64 `json:"containerPrice,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u *SettingsUpdate) Empty() bool {
	return u.DeliveryAvailable == nil && u.DeliveryFee == nil &&
		u.DeliveryTime == nil && u.DeliveryRadiusKM == nil &&
		u.Phone == nil && u.ContainerPrice == nil
}
