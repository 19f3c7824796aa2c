package square

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avilesdev/storefront-backend/internal/cart"
	"github.com/avilesdev/storefront-backend/internal/orders"
	"github.com/avilesdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/logger"
)

const sessionNotePrefix = "session:"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type draftClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Event is the subset of a Square payment notification the storefront acts on.
type Event struct {
	Type      string
	SessionID string
	Status    string
}

// ParseEvent extracts the session id and payment status from a webhook body.
// Events that do not reference a checkout session yield a nil event.
func ParseEvent(body []byte) (*Event, error) {
	var payload struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				Payment struct {
					Status string `json:"status"`
					Note   string `json:"note"`
				} `json:"payment"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decoding webhook payload")
	}
	if !strings.HasPrefix(payload.Type, "payment.") {
		return nil, nil
	}
	note := strings.TrimSpace(payload.Data.Object.Payment.Note)
	if !strings.HasPrefix(note, sessionNotePrefix) {
		return nil, nil
	}
	return &Event{
		Type:      payload.Type,
		SessionID: strings.TrimPrefix(note, sessionNotePrefix),
		Status:    strings.ToUpper(payload.Data.Object.Payment.Status),
	}, nil
}

// Service finalizes pending orders from Square payment notifications.
type Service struct {
	orders   orders.OrderRepository
	cartRepo cart.CartRepository
	drafts   draftClearer
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds the webhook handler service.
func NewService(orderRepo orders.OrderRepository, cartRepo cart.CartRepository, drafts draftClearer, tx txRunner, logg *logger.Logger) (*Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if drafts == nil {
		return nil, fmt.Errorf("draft service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{orders: orderRepo, cartRepo: cartRepo, drafts: drafts, tx: tx, logg: logg}, nil
}

// HandleEvent applies a payment outcome to its pending order. Completed
// payments place the order and clear the shopper's cart; failed or canceled
// payments mark the order failed and leave the cart alone. Repeated
// deliveries of the same outcome are no-ops.
func (s *Service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return nil
	}
	ctx = s.logg.WithSessionID(ctx, event.SessionID)

	order, err := s.orders.FindBySession(ctx, event.SessionID)
	if err != nil {
		return err
	}
	if order.Status.IsTerminal() {
		s.logg.Info(ctx, "webhook for settled order ignored")
		return nil
	}

	switch event.Status {
	case "COMPLETED", "APPROVED":
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.orders.WithTx(tx).UpdateStatusBySession(ctx, event.SessionID, enums.OrderStatusPlaced); err != nil {
				return err
			}
			return s.cartRepo.WithTx(tx).DeleteByUser(ctx, order.UserID)
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalizing paid order")
		}
		if err := s.drafts.Clear(ctx, order.UserID); err != nil {
			s.logg.Warn(ctx, "clearing checkout draft failed")
		}
		s.logg.Info(ctx, "order placed from payment webhook")
		return nil

	case "FAILED", "CANCELED":
		if err := s.orders.UpdateStatusBySession(ctx, event.SessionID, enums.OrderStatusPaymentFailed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking order failed")
		}
		s.logg.Info(ctx, "order marked failed from payment webhook")
		return nil

	default:
		s.logg.Info(ctx, "payment webhook with non-final status ignored")
		return nil
	}
}
