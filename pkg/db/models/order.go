package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawhaven/petshop-backend/pkg/enums"
)

// Order is an immutable purchase record; only status may change after creation.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	TotalPrice decimal.Decimal   `gorm:"column:total_price;type:numeric(10,2);not null"`
	Status     enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
