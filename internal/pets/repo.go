package pets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a pet repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns a filtered page of pets ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, cursor string, limit int) ([]models.Pet, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Model(&models.Pet{})
	if filter.Species != "" {
		query = query.Where("species = ?", filter.Species)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.InStock {
		query = query.Where("stock > 0")
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}
	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var records []models.Pet
	if err := query.Find(&records).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return records, nextCursor, nil
}

// FindByID fetches a single pet by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// Create inserts a new catalog entry.
func (r *Repository) Create(ctx context.Context, pet *models.Pet) error {
	if pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(pet).Error
}

// Update applies the provided fields and returns the affected count.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdatePetInput) (int64, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Species != nil {
		updates["species"] = *input.Species
	}
	if input.Breed != nil {
		updates["breed"] = *input.Breed
	}
	if input.Age != nil {
		updates["age"] = *input.Age
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete removes the catalog entry. Cart and wishlist rows cascade; order
// items keep their snapshot with pet_id set to NULL.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
