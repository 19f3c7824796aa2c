package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod references a card vaulted with the payment provider; only the
// opaque provider id plus display metadata live here.
type PaymentMethod struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ProviderRef  string    `gorm:"column:provider_ref;not null"`
	CardBrand    *string   `gorm:"column:card_brand"`
	CardLast4    *string   `gorm:"column:card_last4"`
	CardExpMonth *int      `gorm:"column:card_exp_month"`
	CardExpYear  *int      `gorm:"column:card_exp_year"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
