package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

type petFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
}

// Service exposes the buyer wishlist operations.
type Service struct {
	repo *Repository
	pets petFinder
}

// NewService constructs the wishlist service.
func NewService(repo *Repository, pets petFinder) *Service {
	return &Service{repo: repo, pets: pets}
}

// Add wishes a pet. Wishing the same pet twice is a no-op.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, petID uuid.UUID) error {
	if _, err := s.pets.FindByID(ctx, petID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching pet")
	}

	if err := s.repo.Add(ctx, userID, petID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding wishlist item")
	}
	return nil
}

// Remove unwishes a pet. Removing an absent wish is a no-op.
func (s *Service) Remove(ctx context.Context, userID, petID uuid.UUID) error {
	if _, err := s.repo.Remove(ctx, userID, petID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing wishlist item")
	}
	return nil
}

// List returns a page of the user's wished pets.
func (s *Service) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (types.Page[ItemDTO], error) {
	items, nextCursor, err := s.repo.List(ctx, userID, cursor, limit)
	if err != nil {
		return types.Page[ItemDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing wishlist")
	}

	page := types.Page[ItemDTO]{Items: items}
	if nextCursor != "" {
		page.NextCursor = &nextCursor
	}
	return page, nil
}
