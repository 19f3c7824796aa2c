package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/api/middleware"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
)

// authedUser resolves the authenticated user's id from the request context.
func authedUser(ctx context.Context) (uuid.UUID, error) {
	userID := middleware.UserUUIDFromContext(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return userID, nil
}

func parseUUID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}
