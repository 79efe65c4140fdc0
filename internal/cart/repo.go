package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgdb "github.com/pawhaven/petshop-backend/pkg/db"
	"github.com/pawhaven/petshop-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddOrIncrement adds delta to an existing line or inserts a fresh one.
// Update-then-insert keeps the common case (repeat add) a single statement;
// when two first-adds race, the loser of the insert hits the unique index on
// (user_id, pet_id) and retries as an update.
func (r *Repository) AddOrIncrement(ctx context.Context, userID, petID uuid.UUID, delta int) error {
	if delta <= 0 {
		return fmt.Errorf("delta must be positive")
	}

	increment := func() (int64, error) {
		result := r.db.WithContext(ctx).
			Model(&models.CartItem{}).
			Where("user_id = ? AND pet_id = ?", userID, petID).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", delta),
				"updated_at": time.Now().UTC(),
			})
		return result.RowsAffected, result.Error
	}

	affected, err := increment()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	item := &models.CartItem{
		ID:       uuid.New(),
		UserID:   userID,
		PetID:    petID,
		Quantity: delta,
	}
	insertErr := r.db.WithContext(ctx).Create(item).Error
	if insertErr == nil {
		return nil
	}
	if !pkgdb.IsUniqueViolation(insertErr, "cart_items_user_pet_key") {
		return insertErr
	}

	// lost the insert race: the row exists now, so the update must land
	affected, err = increment()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("cart line vanished during upsert retry: %w", insertErr)
	}
	return nil
}

// LineQuantity reports the quantity the user already holds for a pet, zero
// when no line exists.
func (r *Repository) LineQuantity(ctx context.Context, userID, petID uuid.UUID) (int, error) {
	var quantities []int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND pet_id = ?", userID, petID).
		Pluck("quantity", &quantities).Error
	if err != nil {
		return 0, err
	}
	if len(quantities) == 0 {
		return 0, nil
	}
	return quantities[0], nil
}

// SetQuantity replaces the quantity of an existing line and returns the
// affected count. Zero means the line does not exist for this user.
func (r *Repository) SetQuantity(ctx context.Context, userID, petID uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND pet_id = ?", userID, petID).
		Updates(map[string]any{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

// Remove deletes one line scoped to the owner.
func (r *Repository) Remove(ctx context.Context, userID, petID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND pet_id = ?", userID, petID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// Clear removes every line for the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}

// lineRecord is a cart row joined with its pet.
type lineRecord struct {
	ID        uuid.UUID       `gorm:"column:id"`
	PetID     uuid.UUID       `gorm:"column:pet_id"`
	Name      string          `gorm:"column:name"`
	Species   string          `gorm:"column:species"`
	Breed     *string         `gorm:"column:breed"`
	ImageURL  *string         `gorm:"column:image_url"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
	Quantity  int             `gorm:"column:quantity"`
	Stock     int             `gorm:"column:stock"`
	AddedAt   time.Time       `gorm:"column:added_at"`
}

// List returns the user's cart lines joined with live catalog data, oldest
// line first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]CartLineDTO, error) {
	var records []lineRecord
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.id, ci.pet_id, p.name, p.species, p.breed, p.image_url, p.price AS unit_price, ci.quantity, p.stock, ci.created_at AS added_at").
		Joins("JOIN pets p ON p.id = ci.pet_id").
		Where("ci.user_id = ?", userID).
		Order("ci.created_at ASC").
		Order("ci.id ASC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	lines := make([]CartLineDTO, 0, len(records))
	for _, record := range records {
		lines = append(lines, CartLineDTO{
			ID:        record.ID,
			PetID:     record.PetID,
			Name:      record.Name,
			Species:   record.Species,
			Breed:     record.Breed,
			ImageURL:  record.ImageURL,
			UnitPrice: record.UnitPrice,
			Quantity:  record.Quantity,
			LineTotal: record.UnitPrice.Mul(decimal.NewFromInt(int64(record.Quantity))),
			Stock:     record.Stock,
			AddedAt:   record.AddedAt,
		})
	}
	return lines, nil
}
