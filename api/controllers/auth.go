package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pawhaven/petshop-backend/api/responses"
	"github.com/pawhaven/petshop-backend/api/validators"
	"github.com/pawhaven/petshop-backend/internal/auth"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
	"github.com/pawhaven/petshop-backend/pkg/logger"
)

// AuthService is the surface the auth controllers depend on.
type AuthService interface {
	Register(ctx context.Context, input auth.RegisterInput) (auth.AuthResultDTO, error)
	Login(ctx context.Context, input auth.LoginInput) (auth.AuthResultDTO, error)
	Refresh(ctx context.Context, input auth.RefreshInput) (auth.TokenPairDTO, error)
	Logout(ctx context.Context, accessToken string) error
}

// AuthRegister creates a buyer account.
func AuthRegister(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input auth.RegisterInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Register(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin verifies credentials and issues tokens.
func AuthLogin(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input auth.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthRefresh rotates the refresh session and mints a new pair.
func AuthRefresh(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input auth.RefreshInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pair, err := svc.Refresh(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, pair)
	}
}

// AuthLogout revokes the session behind the bearer token.
func AuthLogout(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r)
		if token == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.Logout(ctx, token); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
