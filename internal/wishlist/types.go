package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is a wishlist row joined with its live catalog data.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	PetID     uuid.UUID       `json:"pet_id"`
	Name      string          `json:"name"`
	Species   string          `json:"species"`
	Breed     *string         `json:"breed,omitempty"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	AddedAt   time.Time       `json:"added_at"`
}

// AddItemInput is the payload for wishing a pet.
type AddItemInput struct {
	PetID uuid.UUID `json:"pet_id" validate:"required"`
}
