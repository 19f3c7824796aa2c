package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/types"
)

// ProductVariant overrides display image and specifications for a selectable
// variation of a product, with its own stock pool.
type ProductVariant struct {
	ID             uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID      uuid.UUID     `gorm:"column:product_id;type:uuid;not null;index"`
	Name           string        `gorm:"column:name;not null"`
	Image          string        `gorm:"column:image"`
	Stock          int           `gorm:"column:stock;not null;default:0"`
	Specifications types.JSONMap `gorm:"column:specifications;type:jsonb;serializer:json"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
