package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a liked pet.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:wishlist_items_user_pet_key"`
	PetID     uuid.UUID `gorm:"column:pet_id;type:uuid;not null;uniqueIndex:wishlist_items_user_pet_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
