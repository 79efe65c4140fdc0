package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawhaven/petshop-backend/api/responses"
	"github.com/pawhaven/petshop-backend/api/validators"
	"github.com/pawhaven/petshop-backend/internal/pets"
	"github.com/pawhaven/petshop-backend/pkg/logger"
	"github.com/pawhaven/petshop-backend/pkg/pagination"
	"github.com/pawhaven/petshop-backend/pkg/types"
)

// PetCatalogService is the read surface the public catalog controllers use.
type PetCatalogService interface {
	List(ctx context.Context, filter pets.ListFilter, cursor string, limit int) (types.Page[pets.PetDTO], error)
	Get(ctx context.Context, id uuid.UUID) (pets.PetDTO, error)
}

// PetsList returns the filtered, paginated catalog.
func PetsList(svc PetCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		minPrice, err := pets.ParsePriceBound(strings.TrimSpace(r.URL.Query().Get("min_price")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		maxPrice, err := pets.ParsePriceBound(strings.TrimSpace(r.URL.Query().Get("max_price")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filter := pets.ListFilter{
			Species:  strings.TrimSpace(r.URL.Query().Get("species")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
			InStock:  r.URL.Query().Get("in_stock") == "true",
		}

		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
		page, err := svc.List(ctx, filter, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// PetsGet returns one catalog entry.
func PetsGet(svc PetCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pet, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, pet)
	}
}
