package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawhaven/petshop-backend/pkg/db/models"
	"github.com/pawhaven/petshop-backend/pkg/enums"
)

// UserDTO is the public shape of a user record. The password hash never leaves
// the repository layer.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ToDTO maps the persistence model to its public shape.
func ToDTO(m *models.User) UserDTO {
	return UserDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UpdateUserInput carries the admin-editable profile fields. Nil means leave
// the field untouched.
type UpdateUserInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UpdateRoleInput carries a role change request.
type UpdateRoleInput struct {
	Role string `json:"role" validate:"required,oneof=buyer admin"`
}
