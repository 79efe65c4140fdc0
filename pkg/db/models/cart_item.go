package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (user, pet, quantity) selection. The composite unique index
// is the invariant the cart upsert leans on under concurrent adds.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:cart_items_user_pet_key"`
	PetID     uuid.UUID `gorm:"column:pet_id;type:uuid;not null;uniqueIndex:cart_items_user_pet_key"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
