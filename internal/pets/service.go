package pets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

// Service exposes the public catalog plus the admin CRUD surface.
type Service struct {
	repo *Repository
}

// NewService constructs the pet service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns a filtered page of pets.
func (s *Service) List(ctx context.Context, filter ListFilter, cursor string, limit int) (types.Page[PetDTO], error) {
	records, nextCursor, err := s.repo.List(ctx, filter, cursor, limit)
	if err != nil {
		return types.Page[PetDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing pets")
	}

	items := make([]PetDTO, 0, len(records))
	for i := range records {
		items = append(items, ToDTO(&records[i]))
	}

	page := types.Page[PetDTO]{Items: items}
	if nextCursor != "" {
		page.NextCursor = &nextCursor
	}
	return page, nil
}

// Get fetches one pet by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (PetDTO, error) {
	pet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PetDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return PetDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching pet")
	}
	return ToDTO(pet), nil
}

// Create adds a new catalog entry.
func (s *Service) Create(ctx context.Context, input CreatePetInput) (PetDTO, error) {
	if input.Price.IsNegative() {
		return PetDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return PetDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	pet := &models.Pet{
		Name:        input.Name,
		Species:     input.Species,
		Breed:       input.Breed,
		Age:         input.Age,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
	}
	if err := s.repo.Create(ctx, pet); err != nil {
		return PetDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating pet")
	}
	return ToDTO(pet), nil
}

// Update edits an existing catalog entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdatePetInput) (PetDTO, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return PetDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return PetDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	affected, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return PetDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating pet")
	}
	if affected == 0 && !isEmptyUpdate(input) {
		return PetDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
	}
	return s.Get(ctx, id)
}

// Delete removes a catalog entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting pet")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
	}
	return nil
}

func isEmptyUpdate(input UpdatePetInput) bool {
	return input.Name == nil && input.Species == nil && input.Breed == nil &&
		input.Age == nil && input.Description == nil && input.Category == nil &&
		input.Price == nil && input.Stock == nil && input.ImageURL == nil
}

// ParsePriceBound parses an optional query string price bound.
func ParsePriceBound(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price bound must be a decimal number")
	}
	if value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price bound must not be negative")
	}
	return &value, nil
}
