package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
)

// OrderItemDTO is a snapshot line: pet identity and price as of checkout.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	PetID     *uuid.UUID      `json:"pet_id,omitempty"`
	PetName   string          `json:"pet_name"`
	Species   string          `json:"species"`
	Breed     *string         `json:"breed,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the public shape of an order.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Status     enums.OrderStatus `json:"status"`
	Items      []OrderItemDTO    `json:"items"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ToDTO maps the persistence model to its public shape.
func ToDTO(m *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			PetID:     item.PetID,
			PetName:   item.PetName,
			Species:   item.Species,
			Breed:     item.Breed,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return OrderDTO{
		ID:         m.ID,
		UserID:     m.UserID,
		TotalPrice: m.TotalPrice,
		Status:     m.Status,
		Items:      items,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// UpdateStatusInput carries the admin status change payload.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}
