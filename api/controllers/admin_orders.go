package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawhaven/petshop-backend/api/responses"
	"github.com/pawhaven/petshop-backend/api/validators"
	"github.com/pawhaven/petshop-backend/internal/orders"
	"github.com/pawhaven/petshop-backend/pkg/logger"
	"github.com/pawhaven/petshop-backend/pkg/pagination"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

// OrderAdminService is the back-office order management surface.
type OrderAdminService interface {
	AdminList(ctx context.Context, statusFilter string, cursor string, limit int) (types.Page[orders.OrderDTO], error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (orders.OrderDTO, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, rawStatus string) (orders.OrderDTO, error)
}

// AdminOrdersList returns all orders, optionally filtered by status.
func AdminOrdersList(svc OrderAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status := strings.TrimSpace(r.URL.Query().Get("status"))
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
		page, err := svc.AdminList(ctx, status, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminOrdersGet returns any order regardless of owner.
func AdminOrdersGet(svc OrderAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.AdminGet(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrdersSetStatus advances an order through its lifecycle.
func AdminOrdersSetStatus(svc OrderAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input orders.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.SetStatus(ctx, orderID, input.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
