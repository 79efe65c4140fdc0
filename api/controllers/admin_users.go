package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawhaven/petshop-backend/api/responses"
	"github.com/pawhaven/petshop-backend/api/validators"
	"github.com/pawhaven/petshop-backend/internal/users"
	"github.com/pawhaven/petshop-backend/pkg/enums"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
	"github.com/pawhaven/petshop-backend/pkg/logger"
	"github.com/pawhaven/petshop-backend/pkg/pagination"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

// UserAdminService is the back-office user management surface.
type UserAdminService interface {
	List(ctx context.Context, cursor string, limit int) (types.Page[users.UserDTO], error)
	Get(ctx context.Context, id uuid.UUID) (users.UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input users.UpdateUserInput) (users.UserDTO, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (users.UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminUsersList returns registered users, newest first.
func AdminUsersList(svc UserAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
		page, err := svc.List(ctx, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminUsersGet returns one user record.
func AdminUsersGet(svc UserAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminUsersUpdate edits a user's profile fields.
func AdminUsersUpdate(svc UserAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input users.UpdateUserInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminUsersUpdateRole promotes or demotes a user.
func AdminUsersUpdateRole(svc UserAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input users.UpdateRoleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(input.Role)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]string{"role": input.Role}))
			return
		}

		user, err := svc.UpdateRole(ctx, id, role)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminUsersDelete removes a user account.
func AdminUsersDelete(svc UserAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
