package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
)

type petFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
}

// Service exposes the buyer cart operations.
type Service struct {
	repo *Repository
	pets petFinder
}

// NewService constructs the cart service.
func NewService(repo *Repository, pets petFinder) *Service {
	return &Service{repo: repo, pets: pets}
}

// Add puts a pet in the cart or bumps the quantity of the existing line.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (CartDTO, error) {
	if input.Quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	pet, err := s.pets.FindByID(ctx, input.PetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching pet")
	}
	if pet.Stock <= 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "pet is out of stock")
	}

	// checkout re-verifies stock inside its transaction; this check keeps
	// carts honest at add time
	held, err := s.repo.LineQuantity(ctx, userID, input.PetID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading cart line")
	}
	if held+input.Quantity > pet.Stock {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "not enough stock").WithDetails(map[string]any{
			"available": pet.Stock,
			"requested": held + input.Quantity,
		})
	}

	if err := s.repo.AddOrIncrement(ctx, userID, input.PetID, input.Quantity); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding cart item")
	}
	return s.Get(ctx, userID)
}

// SetQuantity replaces the quantity of an existing cart line. Removing a line
// goes through Remove, not a zero quantity.
func (s *Service) SetQuantity(ctx context.Context, userID, petID uuid.UUID, quantity int) (CartDTO, error) {
	if quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching pet")
	}
	if quantity > pet.Stock {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "not enough stock").WithDetails(map[string]any{
			"available": pet.Stock,
			"requested": quantity,
		})
	}

	affected, err := s.repo.SetQuantity(ctx, userID, petID, quantity)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item")
	}
	if affected == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.Get(ctx, userID)
}

// Remove drops a line from the cart. Removing an absent line is a no-op.
func (s *Service) Remove(ctx context.Context, userID, petID uuid.UUID) (CartDTO, error) {
	if _, err := s.repo.Remove(ctx, userID, petID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart item")
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

// Get returns the cart with totals computed from live prices.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	lines, err := s.repo.List(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart")
	}

	total := decimal.Zero
	count := 0
	for _, line := range lines {
		total = total.Add(line.LineTotal)
		count += line.Quantity
	}

	return CartDTO{
		Items:      lines,
		TotalItems: count,
		TotalPrice: total,
	}, nil
}
