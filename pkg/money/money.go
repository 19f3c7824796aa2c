package money

import "github.com/shopspring/decimal"

// All arithmetic in the cart and checkout services happens on integer cents;
// decimal enters only here, at display-formatting time.

var centsPerUnit = decimal.NewFromInt(100)

// FormatCents renders integer cents as a major-unit amount with two decimal
// places, e.g. 22500 -> "225.00".
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(centsPerUnit).StringFixed(2)
}

// FormatCentsWithSymbol prefixes the formatted amount with a currency symbol.
func FormatCentsWithSymbol(symbol string, cents int64) string {
	return symbol + FormatCents(cents)
}
