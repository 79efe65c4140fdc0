package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawhaven/petshop-backend/api/responses"
	"github.com/pawhaven/petshop-backend/api/validators"
	"github.com/pawhaven/petshop-backend/internal/cart"
	"github.com/pawhaven/petshop-backend/pkg/logger"
)

// CartService is the surface the cart controllers depend on.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (cart.CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (cart.CartDTO, error)
	SetQuantity(ctx context.Context, userID, petID uuid.UUID, quantity int) (cart.CartDTO, error)
	Remove(ctx context.Context, userID, petID uuid.UUID) (cart.CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CartFetch returns the caller's cart with live totals.
func CartFetch(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CartAddItem adds a pet or bumps its quantity.
func CartAddItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input cart.AddItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Add(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// CartUpdateItem replaces the quantity of one line.
func CartUpdateItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		petID, err := validators.ParsePathUUID(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input cart.UpdateQuantityInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.SetQuantity(ctx, userID, petID, input.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CartRemoveItem drops one line; removing an absent line succeeds.
func CartRemoveItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		petID, err := validators.ParsePathUUID(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Remove(ctx, userID, petID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CartClear empties the cart.
func CartClear(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Clear(ctx, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
