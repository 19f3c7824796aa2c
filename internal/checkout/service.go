package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/avilesdev/storefront-backend/internal/cart"
	"github.com/avilesdev/storefront-backend/internal/orders"
	"github.com/avilesdev/storefront-backend/pkg/config"
	"github.com/avilesdev/storefront-backend/pkg/db/models"
	"github.com/avilesdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/logger"
	"github.com/avilesdev/storefront-backend/pkg/money"
	"github.com/avilesdev/storefront-backend/pkg/square"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartReader interface {
	Fetch(ctx context.Context, userID uuid.UUID, couponCode string) (*cart.CartView, error)
}

type addressSaver interface {
	SaveShippingAddress(ctx context.Context, userID uuid.UUID, address *types.ShippingAddress) error
}

type savedCardResolver interface {
	Get(ctx context.Context, userID, methodID uuid.UUID) (*models.PaymentMethod, error)
}

type paymentLinkCreator interface {
	CreatePaymentLink(ctx context.Context, params square.PaymentLinkParams) (*sq.PaymentLink, error)
}

type draftClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// SessionResult reports where the checkout flow landed.
type SessionResult struct {
	SessionID    string        `json:"session_id"`
	State        State         `json:"state"`
	RedirectURL  string        `json:"redirect_url,omitempty"`
	TotalDisplay string        `json:"total_display,omitempty"`
	Order        *models.Order `json:"order,omitempty"`
}

// Service drives the checkout flow from collected form to terminal state.
type Service interface {
	CreateSession(ctx context.Context, userID uuid.UUID, input Input) (*SessionResult, error)
	PlaceCodOrder(ctx context.Context, userID uuid.UUID, input Input) (*models.Order, error)
}

type service struct {
	carts    cartReader
	cartRepo cart.CartRepository
	orders   orders.OrderRepository
	users    addressSaver
	methods  savedCardResolver
	provider paymentLinkCreator
	drafts   draftClearer
	tx       txRunner
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

// NewService builds the checkout service backed by the provided stack.
func NewService(
	carts cartReader,
	cartRepo cart.CartRepository,
	orderRepo orders.OrderRepository,
	users addressSaver,
	methods savedCardResolver,
	provider paymentLinkCreator,
	drafts draftClearer,
	tx txRunner,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("address saver required")
	}
	if methods == nil {
		return nil, fmt.Errorf("saved card resolver required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
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
	return &service{
		carts:    carts,
		cartRepo: cartRepo,
		orders:   orderRepo,
		users:    users,
		methods:  methods,
		provider: provider,
		drafts:   drafts,
		tx:       tx,
		cfg:      cfg,
		logg:     logg,
	}, nil
}

// CreateSession validates the form, prices the cart, and opens a hosted
// payment session for card methods. COD input short-circuits into an
// immediately placed order. No order exists and the cart is untouched unless
// the payment link was created.
func (s *service) CreateSession(ctx context.Context, userID uuid.UUID, input Input) (*SessionResult, error) {
	view, sessionID, err := s.prepare(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if !input.PaymentMethod.RequiresRedirect() {
		order, err := s.placeCod(ctx, userID, sessionID, view, input)
		if err != nil {
			return nil, err
		}
		return &SessionResult{
			SessionID:    sessionID,
			State:        StateCompleted,
			TotalDisplay: money.FormatCents(order.TotalCents),
			Order:        order,
		}, nil
	}

	totalCents := view.TotalCents + s.cfg.DeliveryFeeCents
	if totalCents > s.cfg.MaxChargeCents {
		return nil, pkgerrors.New(pkgerrors.CodeAmountLimit, "order total exceeds the payment provider limit").
			WithDetails(map[string]any{
				"total_cents": totalCents,
				"limit_cents": s.cfg.MaxChargeCents,
			})
	}

	ctx = s.logg.WithSessionID(ctx, sessionID)
	link, err := s.provider.CreatePaymentLink(ctx, square.PaymentLinkParams{
		SessionID:   sessionID,
		AmountCents: totalCents,
		Currency:    "USD",
	})
	if err != nil {
		// nothing was persisted; the cart stays as it was
		s.logg.Error(ctx, "payment session creation failed", err)
		return nil, err
	}

	order := s.buildOrder(userID, sessionID, view, input, enums.OrderStatusPendingPayment)
	order.PaymentLinkURL = link.GetURL()
	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting pending order")
	}

	s.maybeSaveAddress(ctx, userID, input)
	s.logg.Info(ctx, "checkout session created")

	return &SessionResult{
		SessionID:    sessionID,
		State:        StateRedirectingToPayment,
		RedirectURL:  derefString(order.PaymentLinkURL),
		TotalDisplay: money.FormatCents(order.TotalCents),
		Order:        order,
	}, nil
}

// PlaceCodOrder validates the form and places a cash-on-delivery order,
// clearing the cart atomically with the order insert.
func (s *service) PlaceCodOrder(ctx context.Context, userID uuid.UUID, input Input) (*models.Order, error) {
	if input.PaymentMethod != enums.PaymentMethodCOD {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method must be cash on delivery")
	}
	view, sessionID, err := s.prepare(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	return s.placeCod(ctx, userID, sessionID, view, input)
}

// prepare runs the ValidatingInput and CreatingSession phases shared by both
// payment branches: form validation, cart pricing, and session id issuance.
func (s *service) prepare(ctx context.Context, userID uuid.UUID, input Input) (*cart.CartView, string, error) {
	if userID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := ValidateInput(input); err != nil {
		return nil, "", err
	}
	if input.PaymentMethod == enums.PaymentMethodSavedCard {
		if _, err := s.methods.Get(ctx, userID, *input.SavedCardID); err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "saved card not found for this user")
			}
			return nil, "", err
		}
	}

	view, err := s.carts.Fetch(ctx, userID, input.CouponCode)
	if err != nil {
		return nil, "", err
	}
	if len(view.Items) == 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range view.Items {
		if line.Quantity > line.StockAvailable {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "cart line exceeds available stock").
				WithDetails(map[string]any{"product_id": line.ProductID, "stock_available": line.StockAvailable})
		}
	}

	return view, uuid.NewString(), nil
}

func (s *service) placeCod(ctx context.Context, userID uuid.UUID, sessionID string, view *cart.CartView, input Input) (*models.Order, error) {
	ctx = s.logg.WithSessionID(ctx, sessionID)

	order := s.buildOrder(userID, sessionID, view, input, enums.OrderStatusPlaced)
	now := time.Now().UTC()
	order.PlacedAt = &now

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting order")
		}
		if err := s.cartRepo.WithTx(tx).DeleteByUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.maybeSaveAddress(ctx, userID, input)
	if err := s.drafts.Clear(ctx, userID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", userID.String()), "clearing checkout draft failed")
	}

	s.logg.Info(ctx, "cod order placed")
	return order, nil
}

func (s *service) buildOrder(userID uuid.UUID, sessionID string, view *cart.CartView, input Input, status enums.OrderStatus) *models.Order {
	address := input.ShippingAddress
	items := make([]models.OrderItem, 0, len(view.Items))
	for _, line := range view.Items {
		items = append(items, models.OrderItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			Image:          line.Image,
			Size:           line.Size,
			VariantID:      line.VariantID,
		})
	}

	return &models.Order{
		UserID:           userID,
		SessionID:        sessionID,
		Status:           status,
		PaymentMethod:    input.PaymentMethod,
		ShippingAddress:  address,
		SubtotalCents:    view.SubtotalCents,
		DiscountCents:    view.DiscountCents,
		DeliveryFeeCents: s.cfg.DeliveryFeeCents,
		TotalCents:       view.TotalCents + s.cfg.DeliveryFeeCents,
		CouponCode:       nullableString(view.CouponCode),
		Items:            items,
	}
}

func (s *service) maybeSaveAddress(ctx context.Context, userID uuid.UUID, input Input) {
	if !input.SaveAddress {
		return
	}
	address := input.ShippingAddress
	if err := s.users.SaveShippingAddress(ctx, userID, &address); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", userID.String()), "saving shipping address failed")
	}
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
