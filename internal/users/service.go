package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

// UserRepository defines the persistence surface required by the user service.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SaveShippingAddress(ctx context.Context, userID uuid.UUID, address *types.ShippingAddress) error
}

// Service exposes profile operations for the authenticated user.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateShippingAddress(ctx context.Context, userID uuid.UUID, address types.ShippingAddress) (*models.User, error)
}

type service struct {
	repo UserRepository
}

// NewService builds a user service backed by the provided repository.
func NewService(repo UserRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

// GetProfile loads the user's profile.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.FindByID(ctx, userID)
}

// UpdateShippingAddress validates and stores the default shipping address.
func (s *service) UpdateShippingAddress(ctx context.Context, userID uuid.UUID, address types.ShippingAddress) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !address.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}
	if err := s.repo.SaveShippingAddress(ctx, userID, &address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving shipping address")
	}
	return s.repo.FindByID(ctx, userID)
}
