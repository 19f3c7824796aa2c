package cart

import (
	"strings"

	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
)

// coupons is the fixed promotional table. Codes are matched case-insensitively.
var coupons = map[string]int64{
	"SAVE10":    10,
	"WELCOME20": 20,
}

// ResolveCoupon returns the discount percentage for a code. Unknown codes are
// rejected so callers can drop the stale code from their state.
func ResolveCoupon(code string) (string, int64, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return "", 0, nil
	}
	percent, ok := coupons[normalized]
	if !ok {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code")
	}
	return normalized, percent, nil
}
