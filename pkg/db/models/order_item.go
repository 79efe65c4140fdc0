package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots pet identity and pricing as of order time so the record
// stays accurate when the catalog changes later.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	PetID     *uuid.UUID      `gorm:"column:pet_id;type:uuid"`
	PetName   string          `gorm:"column:pet_name;not null"`
	Species   string          `gorm:"column:species;not null"`
	Breed     *string         `gorm:"column:breed"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
}
