package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
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
	"github.com/avilesdev/storefront-backend/pkg/square"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

func testView(subtotal int64) *cart.CartView {
	return &cart.CartView{
		Items: []cart.LineView{{
			ItemID:         uuid.New(),
			ProductID:      uuid.New(),
			Name:           "Classic Tee",
			UnitPriceCents: subtotal,
			Quantity:       1,
			LineTotalCents: subtotal,
			Image:          "https://cdn.example.com/tee.png",
			StockAvailable: 5,
		}},
		SubtotalCents: subtotal,
		TotalCents:    subtotal,
	}
}

func TestPlaceCodOrderPlacesAndClearsCart(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(22500))
	svc := newTestCheckout(t, deps)
	userID := uuid.New()

	order, err := svc.PlaceCodOrder(context.Background(), userID, validInput(enums.PaymentMethodCOD))
	if err != nil {
		t.Fatalf("PlaceCodOrder: %v", err)
	}

	if order.Status != enums.OrderStatusPlaced {
		t.Fatalf("status = %s, want placed", order.Status)
	}
	if order.PlacedAt == nil {
		t.Fatal("expected placed_at stamp")
	}
	if order.SessionID == "" {
		t.Fatal("expected session id on cod order")
	}
	if order.TotalCents != 23000 { // 22500 + 500 delivery fee
		t.Fatalf("total = %d, want 23000", order.TotalCents)
	}
	if !deps.cartRepo.cleared {
		t.Fatal("expected cart cleared")
	}
	if !deps.drafts.cleared {
		t.Fatal("expected draft cleared")
	}
	if deps.provider.calls != 0 {
		t.Fatal("cod must not touch the payment provider")
	}
}

func TestPlaceCodOrderRejectsCardMethod(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(1000))
	svc := newTestCheckout(t, deps)

	_, err := svc.PlaceCodOrder(context.Background(), uuid.New(), validInput(enums.PaymentMethodCard))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestPlaceCodOrderRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(&cart.CartView{})
	svc := newTestCheckout(t, deps)

	_, err := svc.PlaceCodOrder(context.Background(), uuid.New(), validInput(enums.PaymentMethodCOD))
	if err == nil {
		t.Fatal("expected empty cart to block checkout")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestPlaceCodOrderRejectsOversoldLine(t *testing.T) {
	t.Parallel()

	view := testView(1000)
	view.Items[0].Quantity = 9
	deps := newTestDeps(view)
	svc := newTestCheckout(t, deps)

	_, err := svc.PlaceCodOrder(context.Background(), uuid.New(), validInput(enums.PaymentMethodCOD))
	if err == nil {
		t.Fatal("expected stock re-check to block checkout")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if deps.cartRepo.cleared {
		t.Fatal("cart must survive a rejected checkout")
	}
}

func TestCreateSessionReturnsRedirect(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(22500))
	svc := newTestCheckout(t, deps)
	userID := uuid.New()

	result, err := svc.CreateSession(context.Background(), userID, validInput(enums.PaymentMethodCard))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if result.State != StateRedirectingToPayment {
		t.Fatalf("state = %s, want redirecting_to_payment", result.State)
	}
	if result.SessionID == "" {
		t.Fatal("expected session id before redirect")
	}
	if result.RedirectURL != "https://pay.example.com/link" {
		t.Fatalf("redirect url = %q", result.RedirectURL)
	}
	if result.TotalDisplay != "230.00" { // 22500 + 500 delivery fee
		t.Fatalf("total display = %q, want 230.00", result.TotalDisplay)
	}
	if deps.orders.created == nil {
		t.Fatal("expected pending order persisted")
	}
	if deps.orders.created.Status != enums.OrderStatusPendingPayment {
		t.Fatalf("order status = %s, want pending_payment", deps.orders.created.Status)
	}
	if deps.orders.created.TotalCents != 23000 {
		t.Fatalf("order total = %d, want 23000", deps.orders.created.TotalCents)
	}
	if deps.cartRepo.cleared {
		t.Fatal("cart must survive until payment completes")
	}
	if deps.provider.lastAmount != 23000 {
		t.Fatalf("provider charged %d, want 23000", deps.provider.lastAmount)
	}
}

func TestCreateSessionAmountLimitPreCheck(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(6_000_000))
	svc := newTestCheckout(t, deps)

	_, err := svc.CreateSession(context.Background(), uuid.New(), validInput(enums.PaymentMethodCard))
	if err == nil {
		t.Fatal("expected amount limit error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeAmountLimit {
		t.Fatalf("unexpected error code: %v", err)
	}
	if deps.provider.calls != 0 {
		t.Fatal("limit check must run before the provider call")
	}
	if deps.orders.created != nil {
		t.Fatal("no order may exist after limit rejection")
	}
}

func TestCreateSessionProviderFailureLeavesNoTrace(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(22500))
	deps.provider.err = errors.New("provider unavailable")
	svc := newTestCheckout(t, deps)

	_, err := svc.CreateSession(context.Background(), uuid.New(), validInput(enums.PaymentMethodCard))
	if err == nil {
		t.Fatal("expected provider error to surface")
	}
	if deps.orders.created != nil {
		t.Fatal("redirect failure must not create an order")
	}
	if deps.cartRepo.cleared {
		t.Fatal("redirect failure must not clear the cart")
	}
}

func TestCreateSessionWithCodShortCircuits(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(1000))
	svc := newTestCheckout(t, deps)

	result, err := svc.CreateSession(context.Background(), uuid.New(), validInput(enums.PaymentMethodCOD))
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if result.State != StateCompleted {
		t.Fatalf("state = %s, want completed", result.State)
	}
	if result.Order == nil || result.Order.Status != enums.OrderStatusPlaced {
		t.Fatal("expected placed cod order")
	}
	if deps.provider.calls != 0 {
		t.Fatal("cod must not touch the payment provider")
	}
}

func TestCreateSessionSavesAddressWhenRequested(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(1000))
	svc := newTestCheckout(t, deps)

	input := validInput(enums.PaymentMethodCard)
	input.SaveAddress = true
	if _, err := svc.CreateSession(context.Background(), uuid.New(), input); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if deps.users.saved == nil || deps.users.saved.City != "Austin" {
		t.Fatal("expected shipping address persisted")
	}
}

func TestCreateSessionResolvesOwnedSavedCard(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(1000))
	svc := newTestCheckout(t, deps)
	userID := uuid.New()

	input := validInput(enums.PaymentMethodSavedCard)
	deps.methods.cards = map[uuid.UUID]*models.PaymentMethod{
		*input.SavedCardID: {ID: *input.SavedCardID, UserID: userID, ProviderRef: "ccof:abc"},
	}

	result, err := svc.CreateSession(context.Background(), userID, input)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if result.State != StateRedirectingToPayment {
		t.Fatalf("state = %s, want redirecting_to_payment", result.State)
	}
	if deps.methods.calls != 1 {
		t.Fatalf("vault lookups = %d, want 1", deps.methods.calls)
	}
}

func TestCreateSessionRejectsForeignSavedCard(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(1000))
	svc := newTestCheckout(t, deps)

	input := validInput(enums.PaymentMethodSavedCard)
	deps.methods.cards = map[uuid.UUID]*models.PaymentMethod{
		*input.SavedCardID: {ID: *input.SavedCardID, UserID: uuid.New(), ProviderRef: "ccof:abc"},
	}

	_, err := svc.CreateSession(context.Background(), uuid.New(), input)
	if err == nil {
		t.Fatal("expected foreign saved card to be rejected")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if deps.provider.calls != 0 {
		t.Fatal("rejected saved card must not reach the provider")
	}
	if deps.orders.created != nil {
		t.Fatal("rejected saved card must not create an order")
	}
}

func TestCreateSessionRejectsUnknownCoupon(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(testView(1000))
	deps.carts.fetchErr = pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code")
	svc := newTestCheckout(t, deps)

	input := validInput(enums.PaymentMethodCard)
	input.CouponCode = "BOGUS"
	_, err := svc.CreateSession(context.Background(), uuid.New(), input)
	if err == nil {
		t.Fatal("expected coupon error")
	}
}

type testDeps struct {
	carts    *stubCartReader
	cartRepo *stubCartRepo
	orders   *stubOrderWriter
	users    *stubAddressSaver
	methods  *stubCardVault
	provider *stubProvider
	drafts   *stubDrafts
}

func newTestDeps(view *cart.CartView) *testDeps {
	return &testDeps{
		carts:    &stubCartReader{view: view},
		cartRepo: &stubCartRepo{},
		orders:   &stubOrderWriter{},
		users:    &stubAddressSaver{},
		methods:  &stubCardVault{},
		provider: &stubProvider{url: "https://pay.example.com/link"},
		drafts:   &stubDrafts{},
	}
}

func newTestCheckout(t *testing.T, deps *testDeps) Service {
	t.Helper()

	cfg := config.CheckoutConfig{
		DeliveryFeeCents: 500,
		MaxChargeCents:   5_000_000,
		DraftTTL:         time.Hour,
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(deps.carts, deps.cartRepo, deps.orders, deps.users, deps.methods, deps.provider, deps.drafts, stubTxRunner{}, cfg, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartReader struct {
	view     *cart.CartView
	fetchErr error
}

func (s *stubCartReader) Fetch(ctx context.Context, userID uuid.UUID, couponCode string) (*cart.CartView, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.view, nil
}

type stubOrderWriter struct {
	created   *models.Order
	createErr error
}

func (s *stubOrderWriter) WithTx(tx *gorm.DB) orders.OrderRepository { return s }

func (s *stubOrderWriter) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = uuid.New()
	s.created = order
	return order, nil
}

func (s *stubOrderWriter) FindBySessionAndUser(ctx context.Context, sessionID string, userID uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderWriter) FindBySession(ctx context.Context, sessionID string) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderWriter) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderWriter) UpdateStatusBySession(ctx context.Context, sessionID string, status enums.OrderStatus) error {
	return nil
}

type stubCardVault struct {
	cards map[uuid.UUID]*models.PaymentMethod
	calls int
}

func (s *stubCardVault) Get(ctx context.Context, userID, methodID uuid.UUID) (*models.PaymentMethod, error) {
	s.calls++
	if card, ok := s.cards[methodID]; ok && card.UserID == userID {
		return card, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
}

type stubAddressSaver struct {
	saved *types.ShippingAddress
}

func (s *stubAddressSaver) SaveShippingAddress(ctx context.Context, userID uuid.UUID, address *types.ShippingAddress) error {
	s.saved = address
	return nil
}

type stubProvider struct {
	url        string
	err        error
	calls      int
	lastAmount int64
}

func (s *stubProvider) CreatePaymentLink(ctx context.Context, params square.PaymentLinkParams) (*sq.PaymentLink, error) {
	s.calls++
	s.lastAmount = params.AmountCents
	if s.err != nil {
		return nil, s.err
	}
	return &sq.PaymentLink{URL: &s.url}, nil
}

type stubDrafts struct {
	cleared bool
}

func (s *stubDrafts) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return nil
}

type stubCartRepo struct {
	cleared bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.CartRepository { return s }

func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

func (s *stubCartRepo) FindBySelection(ctx context.Context, userID, productID uuid.UUID, size *string, variantID *uuid.UUID) (*models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	return item, nil
}

func (s *stubCartRepo) Update(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	return item, nil
}

func (s *stubCartRepo) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error {
	return nil
}

func (s *stubCartRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return nil
}
