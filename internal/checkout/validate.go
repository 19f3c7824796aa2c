package checkout

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
	phoneRe      = regexp.MustCompile(`^\d{10}$`)
)

// CardDetails carries the raw card entry for a card checkout. The values are
// validated for shape only and never persisted.
type CardDetails struct {
	Number string
	Expiry string // MM/YY
	CVV    string
}

// Input is the collected checkout form.
type Input struct {
	ShippingAddress types.ShippingAddress
	SaveAddress     bool
	PaymentMethod   enums.PaymentMethod
	CouponCode      string
	Card            *CardDetails
	SavedCardID     *uuid.UUID
}

// ValidateInput checks the collected form field by field. The order is fixed:
// shipping address first, then card details, then phone number, so the shopper
// always sees the earliest broken field.
func ValidateInput(input Input) error {
	if err := validateShipping(input.ShippingAddress); err != nil {
		return err
	}
	if err := validatePayment(input); err != nil {
		return err
	}
	return validatePhone(input.ShippingAddress.PhoneNumber)
}

func validateShipping(address types.ShippingAddress) error {
	missing := []string{}
	if strings.TrimSpace(address.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(address.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(address.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(address.PostalCode) == "" {
		missing = append(missing, "postal_code")
	}
	if strings.TrimSpace(address.Country) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete").
			WithDetails(map[string]any{"missing_fields": missing})
	}
	return nil
}

func validatePayment(input Input) error {
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}

	switch input.PaymentMethod {
	case enums.PaymentMethodCard:
		return validateCard(input.Card)
	case enums.PaymentMethodSavedCard:
		if input.SavedCardID == nil || *input.SavedCardID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "saved card id is required")
		}
	}
	return nil
}

func validateCard(card *CardDetails) error {
	if card == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "card details are required")
	}
	if !cardNumberRe.MatchString(stripSpacing(card.Number)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "card number must be 16 digits")
	}
	if !expiryRe.MatchString(strings.TrimSpace(card.Expiry)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "card expiry must be MM/YY")
	}
	if !cvvRe.MatchString(strings.TrimSpace(card.CVV)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cvv must be 3 digits")
	}
	return nil
}

func validatePhone(phone string) error {
	if !phoneRe.MatchString(stripSpacing(phone)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number must be 10 digits")
	}
	return nil
}

func stripSpacing(value string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(value))
}
