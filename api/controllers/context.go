package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawhaven/petshop-backend/api/middleware"
	pkgerrors "github.com/pawhaven/petshop-backend/pkg/errors"
)

// currentUserID extracts the authenticated user from the request context.
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
