package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
)

func TestAddMergesMatchingSelection(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 50)
	svc, repo := newTestService(t, product)
	userID := uuid.New()

	size := "M"
	if _, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2, Size: &size}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 3, Size: &size}); err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(repo.items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(repo.items))
	}
	if got := repo.items[0].Quantity; got != 5 {
		t.Fatalf("expected merged quantity 5, got %d", got)
	}
}

func TestAddDistinctSelectionsStaySeparate(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 50)
	svc, repo := newTestService(t, product)
	userID := uuid.New()

	small, medium := "S", "M"
	if _, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: &small}); err != nil {
		t.Fatalf("add small: %v", err)
	}
	if _, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: &medium}); err != nil {
		t.Fatalf("add medium: %v", err)
	}

	if len(repo.items) != 2 {
		t.Fatalf("expected two lines, got %d", len(repo.items))
	}
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 50)
	svc, repo := newTestService(t, product)
	userID := uuid.New()

	view, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := view.Items[0].ItemID

	after, err := svc.UpdateQuantity(context.Background(), userID, itemID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(after.Items) != 0 || len(repo.items) != 0 {
		t.Fatal("expected line removed when quantity drops below one")
	}
}

func TestRemoveMissingLineIsNoOp(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 50)
	svc, repo := newTestService(t, product)
	userID := uuid.New()

	view, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := view.Items[0].ItemID

	if _, err := svc.UpdateQuantity(context.Background(), userID, itemID, 0); err != nil {
		t.Fatalf("first removal: %v", err)
	}
	after, err := svc.UpdateQuantity(context.Background(), userID, itemID, 0)
	if err != nil {
		t.Fatalf("second removal: %v", err)
	}
	if len(after.Items) != 0 || len(repo.items) != 0 {
		t.Fatal("expected cart unchanged after removing an absent line")
	}

	if _, err := svc.Remove(context.Background(), userID, uuid.New()); err != nil {
		t.Fatalf("removing unknown line: %v", err)
	}
}

func TestFetchAppliesCoupon(t *testing.T) {
	t.Parallel()

	product := testProduct(7500, 50) // 3 x 7500 = 22500
	svc, _ := newTestService(t, product)
	userID := uuid.New()

	if _, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err := svc.Fetch(context.Background(), userID, "save10")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if view.SubtotalCents != 22500 {
		t.Fatalf("subtotal = %d, want 22500", view.SubtotalCents)
	}
	if view.DiscountCents != 2250 {
		t.Fatalf("discount = %d, want 2250", view.DiscountCents)
	}
	if view.TotalCents != 20250 {
		t.Fatalf("total = %d, want 20250", view.TotalCents)
	}
	if view.TotalDisplay != "202.50" {
		t.Fatalf("total display = %q, want 202.50", view.TotalDisplay)
	}
	if view.CouponCode != "SAVE10" {
		t.Fatalf("coupon code = %q, want SAVE10", view.CouponCode)
	}
}

func TestFetchUnknownCouponFallsBackToSubtotal(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 50)
	svc, _ := newTestService(t, product)
	userID := uuid.New()

	if _, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	view, err := svc.Fetch(context.Background(), userID, "BOGUS99")
	if err == nil {
		t.Fatal("expected error for unknown coupon")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if view == nil {
		t.Fatal("expected undiscounted cart alongside the coupon error")
	}
	if view.DiscountCents != 0 || view.TotalCents != view.SubtotalCents {
		t.Fatalf("expected total to fall back to subtotal, got %d/%d", view.TotalCents, view.SubtotalCents)
	}
	if view.CouponCode != "" {
		t.Fatalf("expected coupon cleared, got %q", view.CouponCode)
	}
	if view.CouponError == "" {
		t.Fatal("expected coupon failure noted on the view")
	}
}

func TestViewFallsBackForUnknownVariant(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 7)
	product.Image = "https://cdn.example.com/shirt.png"
	svc, repo := newTestService(t, product)
	userID := uuid.New()

	ghost := uuid.New()
	repo.items = append(repo.items, models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  1,
		VariantID: &ghost,
		Product:   product,
	})

	view, err := svc.Fetch(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	line := view.Items[0]
	if line.VariantName != "" {
		t.Fatalf("expected no variant name for unknown variant, got %q", line.VariantName)
	}
	if line.Image != "https://cdn.example.com/shirt.png" {
		t.Fatalf("expected product image fallback, got %q", line.Image)
	}
	if line.StockAvailable != 7 {
		t.Fatalf("expected product stock fallback, got %d", line.StockAvailable)
	}
}

func TestViewUsesVariantSnapshot(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 7)
	variant := models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Forest Green",
		Image:     "https://cdn.example.com/green.png",
		Stock:     3,
	}
	product.Variants = []models.ProductVariant{variant}
	svc, repo := newTestService(t, product)
	userID := uuid.New()

	repo.items = append(repo.items, models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  1,
		VariantID: &variant.ID,
		Product:   product,
	})

	view, err := svc.Fetch(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	line := view.Items[0]
	if line.VariantName != "Forest Green" {
		t.Fatalf("variant name = %q", line.VariantName)
	}
	if line.Image != "https://cdn.example.com/green.png" {
		t.Fatalf("variant image = %q", line.Image)
	}
	if line.StockAvailable != 3 {
		t.Fatalf("variant stock = %d", line.StockAvailable)
	}
}

func TestAddRejectsInsufficientStock(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 2)
	svc, _ := newTestService(t, product)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 3})
	if err == nil {
		t.Fatal("expected stock error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestAddRejectsUnknownSize(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 10)
	svc, _ := newTestService(t, product)
	userID := uuid.New()

	size := "XXL"
	_, err := svc.Add(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: &size})
	if err == nil {
		t.Fatal("expected size error")
	}
}

func TestAddManyAbortsOnFirstFailure(t *testing.T) {
	t.Parallel()

	product := testProduct(1000, 10)
	svc, repo := newTestService(t, product)
	userID := uuid.New()

	_, err := svc.AddMany(context.Background(), userID, []AddItemInput{
		{ProductID: product.ID, Quantity: 1},
		{ProductID: uuid.New(), Quantity: 1}, // unknown product
	})
	if err == nil {
		t.Fatal("expected batch to fail")
	}
	_ = repo
}

func TestNormalizeImageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "absolute https kept", input: "https://cdn.example.com/a.png", want: "https://cdn.example.com/a.png"},
		{name: "absolute http kept", input: "http://cdn.example.com/a.png", want: "http://cdn.example.com/a.png"},
		{name: "relative replaced", input: "/img/a.png", want: PlaceholderImage},
		{name: "empty replaced", input: "", want: PlaceholderImage},
		{name: "other scheme replaced", input: "ftp://cdn.example.com/a.png", want: PlaceholderImage},
		{name: "garbage replaced", input: "::::", want: PlaceholderImage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeImageURL(tc.input); got != tc.want {
				t.Fatalf("NormalizeImageURL(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func testProduct(priceCents int64, stock int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       "Classic Tee",
		PriceCents: priceCents,
		Stock:      stock,
		Image:      "https://cdn.example.com/tee.png",
		Sizes:      []string{"S", "M", "L"},
		IsActive:   true,
	}
}

func newTestService(t *testing.T, products ...*models.Product) (Service, *memCartRepo) {
	t.Helper()

	catalog := map[uuid.UUID]*models.Product{}
	for _, p := range products {
		catalog[p.ID] = p
	}
	repo := &memCartRepo{catalog: catalog}
	svc, err := NewService(repo, stubTxRunner{}, stubProductLoader{catalog: catalog})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProductLoader struct {
	catalog map[uuid.UUID]*models.Product
}

func (s stubProductLoader) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.catalog[id]
	if !ok || !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

type memCartRepo struct {
	items   []models.CartItem
	catalog map[uuid.UUID]*models.Product
}

func (m *memCartRepo) WithTx(tx *gorm.DB) CartRepository { return m }

func (m *memCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		item.Product = m.catalog[item.ProductID]
		rows = append(rows, item)
	}
	return rows, nil
}

func (m *memCartRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error) {
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			item := m.items[i]
			item.Product = m.catalog[item.ProductID]
			return &item, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

func (m *memCartRepo) FindBySelection(ctx context.Context, userID, productID uuid.UUID, size *string, variantID *uuid.UUID) (*models.CartItem, error) {
	for i := range m.items {
		if m.items[i].UserID == userID && m.items[i].MatchesSelection(productID, size, variantID) {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (m *memCartRepo) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items = append(m.items, *item)
	return item, nil
}

func (m *memCartRepo) Update(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	for i := range m.items {
		if m.items[i].ID == item.ID {
			stored := *item
			stored.Product = nil
			m.items[i] = stored
			return item, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

func (m *memCartRepo) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) error {
	out := m.items[:0]
	for _, item := range m.items {
		if item.ID == id && item.UserID == userID {
			continue
		}
		out = append(out, item)
	}
	m.items = out
	return nil
}

func (m *memCartRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	out := m.items[:0]
	for _, item := range m.items {
		if item.UserID == userID {
			continue
		}
		out = append(out, item)
	}
	m.items = out
	return nil
}
