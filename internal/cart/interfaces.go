package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error)
	FindBySelection(ctx context.Context, userID, productID uuid.UUID, size *string, variantID *uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	Update(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
