package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations scoped to the authenticated user.
type Service interface {
	Fetch(ctx context.Context, userID uuid.UUID, couponCode string) (*CartView, error)
	Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartView, error)
	AddMany(ctx context.Context, userID uuid.UUID, inputs []AddItemInput) (*CartView, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartView, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

// AddItemInput captures a product selection to add to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      *string
	VariantID *uuid.UUID
}

// LineView is the display form of one cart line.
type LineView struct {
	ItemID         uuid.UUID  `json:"item_id"`
	ProductID      uuid.UUID  `json:"product_id"`
	Name           string     `json:"name"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	Quantity       int        `json:"quantity"`
	LineTotalCents int64      `json:"line_total_cents"`
	Image          string     `json:"image"`
	Size           *string    `json:"size,omitempty"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	VariantName    string     `json:"variant_name,omitempty"`
	StockAvailable int        `json:"stock_available"`
}

// CartView is the cart aggregate with derived totals.
type CartView struct {
	Items         []LineView `json:"items"`
	SubtotalCents int64      `json:"subtotal_cents"`
	DiscountCents int64      `json:"discount_cents"`
	TotalCents    int64      `json:"total_cents"`
	TotalDisplay  string     `json:"total_display"`
	CouponCode    string     `json:"coupon_code,omitempty"`
	CouponPercent int64      `json:"coupon_percent,omitempty"`
	CouponError   string     `json:"coupon_error,omitempty"`
}

// Fetch loads the cart and derives totals, applying the coupon when provided.
// An unknown coupon code still yields the cart with undiscounted totals; the
// view carries the failure and the coupon error is returned alongside it so
// callers choose whether to surface or reject.
func (s *service) Fetch(ctx context.Context, userID uuid.UUID, couponCode string) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	code, percent, couponErr := ResolveCoupon(couponCode)

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	view := buildView(rows, code, percent)
	if couponErr != nil {
		if typed := pkgerrors.As(couponErr); typed != nil {
			view.CouponError = typed.Message()
		}
		return view, couponErr
	}
	return view, nil
}

// Add merges the selection into an existing line or creates a new one.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.addOne(ctx, userID, input); err != nil {
		return nil, err
	}
	return s.Fetch(ctx, userID, "")
}

// AddMany processes selections in order inside one transaction. The first
// failing selection aborts the whole batch.
func (s *service) AddMany(ctx context.Context, userID uuid.UUID, inputs []AddItemInput) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txSvc := &service{repo: s.repo.WithTx(tx), tx: s.tx, products: s.products}
		for _, input := range inputs {
			if err := txSvc.addOne(ctx, userID, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Fetch(ctx, userID, "")
}

func (s *service) addOne(ctx context.Context, userID uuid.UUID, input AddItemInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindActiveByID(ctx, input.ProductID)
	if err != nil {
		return err
	}

	size := normalizeSize(input.Size)
	if size != nil && !product.HasSize(*size) {
		return pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}

	available := product.Stock
	if input.VariantID != nil {
		variant := product.VariantByID(*input.VariantID)
		if variant == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant not offered for this product")
		}
		available = variant.Stock
	}

	existing, err := s.repo.FindBySelection(ctx, userID, input.ProductID, size, input.VariantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up cart line")
	}

	if existing != nil {
		merged := existing.Quantity + input.Quantity
		if merged > available {
			return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock for requested quantity")
		}
		existing.Quantity = merged
		if _, err := s.repo.Update(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
		}
		return nil
	}

	if input.Quantity > available {
		return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock for requested quantity")
	}
	item := &models.CartItem{
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Size:      size,
		VariantID: input.VariantID,
	}
	if _, err := s.repo.Create(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart line")
	}
	return nil
}

// UpdateQuantity sets the line quantity. Anything below one removes the line.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if quantity < 1 {
		return s.Remove(ctx, userID, itemID)
	}

	item, err := s.repo.FindByIDAndUser(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if item.Product != nil {
		available := item.Product.Stock
		if item.VariantID != nil {
			if variant := item.Product.VariantByID(*item.VariantID); variant != nil {
				available = variant.Stock
			}
		}
		if quantity > available {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock for requested quantity")
		}
	}

	item.Quantity = quantity
	if _, err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}
	return s.Fetch(ctx, userID, "")
}

// Remove deletes a single line. Removing a line that is already gone is a
// no-op and still returns the current cart.
func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.DeleteByIDAndUser(ctx, itemID, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
	}
	return s.Fetch(ctx, userID, "")
}

// Clear drops every line in the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}

func buildView(rows []models.CartItem, couponCode string, couponPercent int64) *CartView {
	items := make([]LineView, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.Product == nil {
			// product removed from the catalog; skip the orphan line
			continue
		}
		snap := snapshotLine(row.Product, row)
		line := LineView{
			ItemID:         row.ID,
			ProductID:      row.ProductID,
			Name:           snap.Name,
			UnitPriceCents: row.Product.PriceCents,
			Quantity:       row.Quantity,
			LineTotalCents: row.Product.PriceCents * int64(row.Quantity),
			Image:          snap.Image,
			Size:           row.Size,
			VariantID:      row.VariantID,
			VariantName:    snap.VariantName,
			StockAvailable: snap.Stock,
		}
		items = append(items, line)
	}

	subtotal := Subtotal(items)
	discount := DiscountCents(subtotal, couponPercent)
	view := &CartView{
		Items:         items,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    Total(subtotal, discount),
	}
	view.TotalDisplay = money.FormatCents(view.TotalCents)
	if discount > 0 {
		view.CouponCode = couponCode
		view.CouponPercent = couponPercent
	}
	return view
}

func normalizeSize(size *string) *string {
	if size == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*size)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
