package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ShippingAddress is the delivery destination captured at checkout,
// stored as JSONB on orders and user profiles.
type ShippingAddress struct {
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
}

// IsComplete reports whether every required field carries a value.
func (a ShippingAddress) IsComplete() bool {
	for _, field := range []string{a.FullName, a.Address, a.City, a.PostalCode, a.Country, a.PhoneNumber} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// Value serializes the address to JSON.
func (a *ShippingAddress) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan decodes JSONB into the address struct.
func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb scan type %T", value)
	}
}
