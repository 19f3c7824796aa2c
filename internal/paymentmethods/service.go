package paymentmethods

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
)

// MethodRepository defines the persistence surface required by the service.
type MethodRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.PaymentMethod, error)
}

// Service exposes saved payment method lookups.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error)
	Get(ctx context.Context, userID, methodID uuid.UUID) (*models.PaymentMethod, error)
}

type service struct {
	repo MethodRepository
}

// NewService builds a payment method service.
func NewService(repo MethodRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment method repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, methodID uuid.UUID) (*models.PaymentMethod, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if methodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}
	return s.repo.FindByIDAndUser(ctx, methodID, userID)
}
