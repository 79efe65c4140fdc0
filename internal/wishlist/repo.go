package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a wishlist entry and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, petID uuid.UUID) error {
	if userID == uuid.Nil || petID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (id, user_id, pet_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, pet_id) DO NOTHING`,
			uuid.New(), userID, petID, time.Now().UTC()).
		Error
}

// Remove deletes the wish if it exists.
func (r *Repository) Remove(ctx context.Context, userID, petID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND pet_id = ?", userID, petID).
		Delete(&models.WishlistItem{})
	return result.RowsAffected, result.Error
}

type itemRecord struct {
	WishlistID        uuid.UUID       `gorm:"column:wishlist_id"`
	WishlistCreatedAt time.Time       `gorm:"column:wishlist_created_at"`
	PetID             uuid.UUID       `gorm:"column:pet_id"`
	Name              string          `gorm:"column:name"`
	Species           string          `gorm:"column:species"`
	Breed             *string         `gorm:"column:breed"`
	ImageURL          *string         `gorm:"column:image_url"`
	Price             decimal.Decimal `gorm:"column:price"`
	Stock             int             `gorm:"column:stock"`
}

// List returns a page of wished pets for a user, newest wish first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]ItemDTO, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Table("wishlist_items wi").
		Select("wi.id AS wishlist_id, wi.created_at AS wishlist_created_at, wi.pet_id, p.name, p.species, p.breed, p.image_url, p.price, p.stock").
		Joins("JOIN pets p ON p.id = wi.pet_id").
		Where("wi.user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(wi.created_at < ?) OR (wi.created_at = ? AND wi.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}
	query = query.Order("wi.created_at DESC").Order("wi.id DESC").Limit(limitWithBuffer)

	var records []itemRecord
	if err := query.Scan(&records).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.WishlistCreatedAt,
			ID:        last.WishlistID,
		})
	}

	items := make([]ItemDTO, 0, len(records))
	for _, record := range records {
		items = append(items, ItemDTO{
			ID:       record.WishlistID,
			PetID:    record.PetID,
			Name:     record.Name,
			Species:  record.Species,
			Breed:    record.Breed,
			ImageURL: record.ImageURL,
			Price:    record.Price,
			Stock:    record.Stock,
			AddedAt:  record.WishlistCreatedAt,
		})
	}
	return items, nextCursor, nil
}
