package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
	"github.com/pawhaven/petshop-backend/pkg/logger"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

type cartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Service exposes checkout, order history, and the admin status workflow.
type Service struct {
	repo *Repository
	cart cartClearer
	logg *logger.Logger
}

// NewService constructs the order service.
func NewService(repo *Repository, cart cartClearer, logg *logger.Logger) *Service {
	return &Service{repo: repo, cart: cart, logg: logg}
}

// Checkout materializes the cart into an order and clears the cart. The order
// exists once the transaction commits; a cart-clear failure afterwards is
// logged and retried implicitly the next time the user touches the cart.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID) (OrderDTO, error) {
	order, err := s.repo.CreateFromCart(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").WithDetails(map[string]any{
				"pet_id":    stockErr.PetID,
				"pet_name":  stockErr.PetName,
				"available": stockErr.Available,
				"requested": stockErr.Requested,
			})
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
	}

	if err := s.cart.Clear(ctx, userID); err != nil && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"user_id":  userID.String(),
		})
		s.logg.Error(logCtx, "checkout.cart_clear_failed", err)
	}

	return ToDTO(order), nil
}

// Get fetches one order for its owner. Someone else's order reads as missing.
func (s *Service) Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching order")
	}
	if order.UserID != userID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return ToDTO(order), nil
}

// List returns a page of the user's own orders.
func (s *Service) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (types.Page[OrderDTO], error) {
	records, nextCursor, err := s.repo.ListForUser(ctx, userID, cursor, limit)
	if err != nil {
		return types.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return toPage(records, nextCursor), nil
}

// AdminGet fetches any order regardless of owner.
func (s *Service) AdminGet(ctx context.Context, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching order")
	}
	return ToDTO(order), nil
}

// AdminList returns a page of all orders, optionally filtered by status.
func (s *Service) AdminList(ctx context.Context, statusFilter string, cursor string, limit int) (types.Page[OrderDTO], error) {
	var status enums.OrderStatus
	if statusFilter != "" {
		parsed, err := enums.ParseOrderStatus(statusFilter)
		if err != nil {
			return types.Page[OrderDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(map[string]any{"status": statusFilter})
		}
		status = parsed
	}

	records, nextCursor, err := s.repo.ListAll(ctx, status, cursor, limit)
	if err != nil {
		return types.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return toPage(records, nextCursor), nil
}

// SetStatus advances an order along pending -> shipped -> delivered, or
// cancels it while still pending.
func (s *Service) SetStatus(ctx context.Context, orderID uuid.UUID, rawStatus string) (OrderDTO, error) {
	target, err := enums.ParseOrderStatus(rawStatus)
	if err != nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(map[string]any{"status": rawStatus})
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching order")
	}

	if !order.Status.CanTransitionTo(target) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").WithDetails(map[string]any{
			"from": order.Status.String(),
			"to":   target.String(),
		})
	}

	affected, err := s.repo.UpdateStatus(ctx, orderID, order.Status, target)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
	}
	if affected == 0 {
		// another transition landed first
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}

	return s.AdminGet(ctx, orderID)
}

func toPage(records []models.Order, nextCursor string) types.Page[OrderDTO] {
	items := make([]OrderDTO, 0, len(records))
	for i := range records {
		items = append(items, ToDTO(&records[i]))
	}
	page := types.Page[OrderDTO]{Items: items}
	if nextCursor != "" {
		page.NextCursor = &nextCursor
	}
	return page
}
