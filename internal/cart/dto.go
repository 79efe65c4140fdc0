package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput is the payload for adding a pet to the cart.
type AddItemInput struct {
	PetID    uuid.UUID `json:"pet_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityInput replaces the quantity of an existing cart line.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// CartLineDTO is one cart row joined with its live catalog data.
type CartLineDTO struct {
	ID        uuid.UUID       `json:"id"`
	PetID     uuid.UUID       `json:"pet_id"`
	Name      string          `json:"name"`
	Species   string          `json:"species"`
	Breed     *string         `json:"breed,omitempty"`
	ImageURL  *string         `json:"image_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Stock     int             `json:"stock"`
	AddedAt   time.Time       `json:"added_at"`
}

// CartDTO is the whole cart with totals computed from live prices.
type CartDTO struct {
	Items      []CartLineDTO   `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
