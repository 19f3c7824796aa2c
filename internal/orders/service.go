package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
	"github.com/avilesdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
)

// OrderRepository defines the persistence surface required by the order service.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindBySessionAndUser(ctx context.Context, sessionID string, userID uuid.UUID) (*models.Order, error)
	FindBySession(ctx context.Context, sessionID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatusBySession(ctx context.Context, sessionID string, status enums.OrderStatus) error
}

// Service exposes order lookups for the authenticated user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*models.Order, error)
}

type service struct {
	repo OrderRepository
}

// NewService builds an order service.
func NewService(repo OrderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetBySession returns the order for a checkout session, scoped to its owner.
func (s *service) GetBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.repo.FindBySessionAndUser(ctx, sessionID, userID)
}
