package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	pkgredis "github.com/avilesdev/storefront-backend/pkg/redis"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

// Draft is the partially collected checkout form, kept server-side so the
// shopper can resume where they left off.
type Draft struct {
	ShippingAddress *types.ShippingAddress `json:"shipping_address,omitempty"`
	PaymentMethod   string                 `json:"payment_method,omitempty"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type draftStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DraftKey(userID string) string
}

// DraftService stores checkout drafts in Redis with a sliding TTL.
type DraftService struct {
	store draftStore
	ttl   time.Duration
}

// NewDraftService builds a draft service with the configured retention.
func NewDraftService(store draftStore, ttl time.Duration) (*DraftService, error) {
	if store == nil {
		return nil, errors.New("draft store required")
	}
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &DraftService{store: store, ttl: ttl}, nil
}

// Save replaces the user's draft.
func (d *DraftService) Save(ctx context.Context, userID uuid.UUID, draft Draft) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	draft.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(draft)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding draft")
	}
	if err := d.store.Set(ctx, d.store.DraftKey(userID.String()), payload, d.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving draft")
	}
	return nil
}

// Get returns the user's draft, or nil when none is stored.
func (d *DraftService) Get(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	raw, err := d.store.Get(ctx, d.store.DraftKey(userID.String()))
	if errors.Is(err, pkgredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading draft")
	}
	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding draft")
	}
	return &draft, nil
}

// Clear drops the user's draft.
func (d *DraftService) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := d.store.Del(ctx, d.store.DraftKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing draft")
	}
	return nil
}
