package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgredis "github.com/avilesdev/storefront-backend/pkg/redis"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

func TestDraftRoundTrip(t *testing.T) {
	t.Parallel()

	store := newMemDraftStore()
	svc, err := NewDraftService(store, time.Hour)
	if err != nil {
		t.Fatalf("NewDraftService: %v", err)
	}
	userID := uuid.New()

	draft := Draft{
		ShippingAddress: &types.ShippingAddress{FullName: "Dana Smith", City: "Austin"},
		PaymentMethod:   "card",
		CouponCode:      "SAVE10",
	}
	if err := svc.Save(context.Background(), userID, draft); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.CouponCode != "SAVE10" || got.ShippingAddress.City != "Austin" {
		t.Fatalf("unexpected draft: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("expected updated_at stamp")
	}
}

func TestDraftGetMissingReturnsNil(t *testing.T) {
	t.Parallel()

	svc, err := NewDraftService(newMemDraftStore(), time.Hour)
	if err != nil {
		t.Fatalf("NewDraftService: %v", err)
	}

	got, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil draft, got %+v", got)
	}
}

func TestDraftClear(t *testing.T) {
	t.Parallel()

	store := newMemDraftStore()
	svc, err := NewDraftService(store, time.Hour)
	if err != nil {
		t.Fatalf("NewDraftService: %v", err)
	}
	userID := uuid.New()

	if err := svc.Save(context.Background(), userID, Draft{CouponCode: "SAVE10"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expected draft gone after clear")
	}
}

type memDraftStore struct {
	values map[string]string
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{values: map[string]string{}}
}

func (m *memDraftStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	return nil
}

func (m *memDraftStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return value, nil
}

func (m *memDraftStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memDraftStore) DraftKey(userID string) string {
	return "sf:checkout_draft:" + userID
}
