package pets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
)

// PetDTO is the public catalog shape of a pet.
type PetDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Species     string          `json:"species"`
	Breed       *string         `json:"breed,omitempty"`
	Age         *int            `json:"age,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToDTO maps the persistence model to its public shape.
func ToDTO(m *models.Pet) PetDTO {
	return PetDTO{
		ID:          m.ID,
		Name:        m.Name,
		Species:     m.Species,
		Breed:       m.Breed,
		Age:         m.Age,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		Stock:       m.Stock,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CreatePetInput carries the admin catalog creation fields.
type CreatePetInput struct {
	Name        string          `json:"name" validate:"required,min=1,max=120"`
	Species     string          `json:"species" validate:"required,min=1,max=80"`
	Breed       *string         `json:"breed,omitempty" validate:"omitempty,max=120"`
	Age         *int            `json:"age,omitempty" validate:"omitempty,gte=0,lte=100"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=4000"`
	Category    string          `json:"category" validate:"required,min=1,max=80"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    *string         `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePetInput carries the admin-editable fields. Nil leaves a field as is.
type UpdatePetInput struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Species     *string          `json:"species,omitempty" validate:"omitempty,min=1,max=80"`
	Breed       *string          `json:"breed,omitempty" validate:"omitempty,max=120"`
	Age         *int             `json:"age,omitempty" validate:"omitempty,gte=0,lte=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=4000"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=1,max=80"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

// ListFilter narrows the public catalog listing.
type ListFilter struct {
	Species  string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
}
