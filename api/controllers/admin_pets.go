package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawhaven/petshop-backend/api/responses"
	"github.com/pawhaven/petshop-backend/api/validators"
	"github.com/pawhaven/petshop-backend/internal/pets"
	"github.com/pawhaven/petshop-backend/pkg/logger"
)

// PetAdminService is the write surface the admin catalog controllers use.
type PetAdminService interface {
	Create(ctx context.Context, input pets.CreatePetInput) (pets.PetDTO, error)
	Update(ctx context.Context, id uuid.UUID, input pets.UpdatePetInput) (pets.PetDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminPetsCreate adds a catalog entry.
func AdminPetsCreate(svc PetAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input pets.CreatePetInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pet, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pet)
	}
}

// AdminPetsUpdate edits a catalog entry.
func AdminPetsUpdate(svc PetAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input pets.UpdatePetInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pet, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, pet)
	}
}

// AdminPetsDelete removes a catalog entry.
func AdminPetsDelete(svc PetAdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "petId"), "petId")
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
