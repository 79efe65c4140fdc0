package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgdb "github.com/pawhaven/petshop-backend/pkg/db"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

// Service exposes the admin back-office user operations.
type Service struct {
	repo *Repository
}

// NewService constructs the user service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of users for the admin console.
func (s *Service) List(ctx context.Context, cursor string, limit int) (types.Page[UserDTO], error) {
	records, nextCursor, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return types.Page[UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing users")
	}

	items := make([]UserDTO, 0, len(records))
	for i := range records {
		items = append(items, ToDTO(&records[i]))
	}

	page := types.Page[UserDTO]{Items: items}
	if nextCursor != "" {
		page.NextCursor = &nextCursor
	}
	return page, nil
}

// Get fetches one user by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching user")
	}
	return ToDTO(user), nil
}

// Update edits the profile fields of an existing user.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (UserDTO, error) {
	affected, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "users_email") {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating user")
	}
	if affected == 0 && (input.Name != nil || input.Email != nil) {
		if _, err := s.repo.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
	}
	return s.Get(ctx, id)
}

// UpdateRole promotes or demotes a user.
func (s *Service) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (UserDTO, error) {
	if !role.IsValid() {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]any{"role": string(role)})
	}

	affected, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating user role")
	}
	if affected == 0 {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.Get(ctx, id)
}

// Delete removes a user that has no purchase history. The orders table
// restricts the delete otherwise.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if pkgdb.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "user has existing orders")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting user")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}
