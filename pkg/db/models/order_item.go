package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a denormalized cart line snapshot frozen at session creation;
// later catalog edits cannot rewrite order history.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	Name           string     `gorm:"column:name;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	Image          string     `gorm:"column:image"`
	Size           *string    `gorm:"column:size"`
	VariantID      *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
