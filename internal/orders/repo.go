package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	"github.com/pawhaven/petshop-backend/pkg/pagination"
)

// ErrEmptyCart signals a checkout attempt with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// InsufficientStockError reports a line whose requested quantity exceeds the
// available stock at checkout time.
type InsufficientStockError struct {
	PetID     uuid.UUID
	PetName   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.PetName, e.Requested, e.Available)
}

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type checkoutLine struct {
	PetID    uuid.UUID       `gorm:"column:pet_id"`
	Name     string          `gorm:"column:name"`
	Species  string          `gorm:"column:species"`
	Breed    *string         `gorm:"column:breed"`
	Price    decimal.Decimal `gorm:"column:price"`
	Stock    int             `gorm:"column:stock"`
	Quantity int             `gorm:"column:quantity"`
}

// CreateFromCart materializes the user's cart into an immutable order inside
// one transaction: stock is verified and decremented, and each line snapshots
// the pet's identity and live price. The cart itself is left untouched; the
// caller clears it after the transaction commits.
func (r *Repository) CreateFromCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []checkoutLine
		err := tx.
			Table("cart_items ci").
			Select("ci.pet_id, p.name, p.species, p.breed, p.price, p.stock, ci.quantity").
			Joins("JOIN pets p ON p.id = ci.pet_id").
			Where("ci.user_id = ?", userID).
			Order("ci.created_at ASC").
			Scan(&lines).Error
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		orderID := uuid.New()
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			// guarded decrement; zero rows means a concurrent checkout won
			result := tx.Model(&models.Pet{}).
				Where("id = ? AND stock >= ?", line.PetID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &InsufficientStockError{
					PetID:     line.PetID,
					PetName:   line.Name,
					Available: line.Stock,
					Requested: line.Quantity,
				}
			}

			petID := line.PetID
			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				PetID:     &petID,
				PetName:   line.Name,
				Species:   line.Species,
				Breed:     line.Breed,
				UnitPrice: line.Price,
				Quantity:  line.Quantity,
			})
			total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order = &models.Order{
			ID:         orderID,
			UserID:     userID,
			TotalPrice: total,
			Status:     enums.OrderStatusPending,
			Items:      items,
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID fetches one order with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser returns a page of the user's orders, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.Order, string, error) {
	return r.list(ctx, cursor, limit, func(query *gorm.DB) *gorm.DB {
		return query.Where("user_id = ?", userID)
	})
}

// ListAll returns a page of every order, optionally filtered by status.
func (r *Repository) ListAll(ctx context.Context, status enums.OrderStatus, cursor string, limit int) ([]models.Order, string, error) {
	return r.list(ctx, cursor, limit, func(query *gorm.DB) *gorm.DB {
		if status != "" {
			query = query.Where("status = ?", status)
		}
		return query
	})
}

func (r *Repository) list(ctx context.Context, cursor string, limit int, scope func(*gorm.DB) *gorm.DB) ([]models.Order, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	query := scope(r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items"))
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}
	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var records []models.Order
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

// UpdateStatus moves the order from one status to another. The WHERE clause
// carries the expected current status so concurrent transitions cannot both
// land.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
