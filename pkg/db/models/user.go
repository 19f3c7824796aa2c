package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/types"
)

// User holds the profile data the storefront needs; credentials live with the
// external identity provider.
type User struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string                 `gorm:"column:email;not null;uniqueIndex"`
	Name            string                 `gorm:"column:name;not null"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
