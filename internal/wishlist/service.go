package wishlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
)

// WishlistRepository defines the persistence surface required by the service.
type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	DeleteByProductAndUser(ctx context.Context, productID, userID uuid.UUID) error
}

type productLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes wishlist operations scoped to the authenticated user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo     WishlistRepository
	products productLoader
}

// NewService builds a wishlist service.
func NewService(repo WishlistRepository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

// Add records the product once; adding it again is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		return err
	}
	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking wishlist")
	}
	if exists {
		return nil
	}
	_, err = s.repo.Create(ctx, &models.WishlistItem{UserID: userID, ProductID: productID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding wishlist entry")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.DeleteByProductAndUser(ctx, productID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing wishlist entry")
	}
	return nil
}
