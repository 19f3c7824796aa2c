package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one purchasable selection in a user's cart. A row is unique per
// user+product+size+variant; adds that match an existing row merge quantities.
type CartItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int        `gorm:"column:quantity;not null"`
	Size      *string    `gorm:"column:size"`
	VariantID *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// MatchesSelection reports whether the line covers the same
// product+size+variant combination.
func (c CartItem) MatchesSelection(productID uuid.UUID, size *string, variantID *uuid.UUID) bool {
	if c.ProductID != productID {
		return false
	}
	if !equalStringPtr(c.Size, size) {
		return false
	}
	return equalUUIDPtr(c.VariantID, variantID)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
