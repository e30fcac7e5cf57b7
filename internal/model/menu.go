package model

import "time"

// MenuItem represents a dish in the catalogue.
type MenuItem struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	Price           float64   `json:"price" db:"price"`
	CategoryID      string    `json:"categoryId" db:"category_id"`
	ImageURL        string    `json:"imageUrl,omitempty" db:"image_url"`
	ModelURL        string    `json:"modelUrl,omitempty" db:"model_url"`
	Available       *bool     `json:"available,omitempty" db:"available"`
	IsAvailable     *bool     `json:"isAvailable,omitempty" db:"is_available"`
	PreparationTime int       `json:"preparationTime" db:"preparation_time"`
	Ingredients     []string  `json:"ingredients,omitempty" db:"ingredients"`
	Allergens       []string  `json:"allergens,omitempty" db:"allergens"`
	ServingsLeft    *int      `json:"servingsLeft,omitempty" db:"servings_left"`
	Serves          int       `json:"serves" db:"serves"`
	NeedsContainer  bool      `json:"needsContainer" db:"needs_container"`
	ContainerPrice  float64   `json:"containerPrice" db:"container_price"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Displayable reports whether the item may appear on the customer-facing
// menu. Both the legacy flag and the current flag must not be false; an
// unset flag counts as available.
func (m *MenuItem) Displayable() bool {
	if m.Available != nil && !*m.Available {
		return false
	}
	if m.IsAvailable != nil && !*m.IsAvailable {
		return false
	}
	return true
}

// Category is a flat menu grouping with no hierarchy.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
