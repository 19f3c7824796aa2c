package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is the catalog snapshot the cart revalidates against on every
// mutating call.
type Product struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string           `gorm:"column:name;not null"`
	PriceCents int64            `gorm:"column:price_cents;not null"`
	Stock      int              `gorm:"column:stock;not null;default:0"`
	Image      string           `gorm:"column:image"`
	Sizes      pq.StringArray   `gorm:"column:sizes;type:text[]"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// VariantByID returns the matching variant, or nil when the id is unknown.
func (p *Product) VariantByID(id uuid.UUID) *ProductVariant {
	if p == nil || id == uuid.Nil {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// HasSize reports whether the product defines the given size.
func (p *Product) HasSize(size string) bool {
	if p == nil {
		return false
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
