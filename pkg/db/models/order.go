package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/enums"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

// Order is created in pending_payment state when a checkout session opens and
// reaches a terminal state either through COD finalization or the payment
// provider callback. SessionID is the join key the success page looks up.
type Order struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	SessionID        string                `gorm:"column:session_id;not null;uniqueIndex"`
	Status           enums.OrderStatus     `gorm:"column:status;not null;default:'pending_payment'"`
	PaymentMethod    enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	ShippingAddress  types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	SubtotalCents    int64                 `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents    int64                 `gorm:"column:discount_cents;not null;default:0"`
	DeliveryFeeCents int64                 `gorm:"column:delivery_fee_cents;not null;default:0"`
	TotalCents       int64                 `gorm:"column:total_cents;not null;default:0"`
	CouponCode       *string               `gorm:"column:coupon_code"`
	PaymentLinkURL   *string               `gorm:"column:payment_link_url"`
	PlacedAt         *time.Time            `gorm:"column:placed_at"`
	Items            []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
