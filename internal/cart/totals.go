package cart

// Subtotal sums line totals across the cart.
func Subtotal(items []LineView) int64 {
	var sum int64
	for _, item := range items {
		sum += item.LineTotalCents
	}
	return sum
}

// DiscountCents computes the coupon discount in integer cents.
func DiscountCents(subtotalCents, percent int64) int64 {
	if subtotalCents <= 0 || percent <= 0 {
		return 0
	}
	return subtotalCents * percent / 100
}

// Total applies the discount to the subtotal, clamped at zero.
func Total(subtotalCents, discountCents int64) int64 {
	total := subtotalCents - discountCents
	if total < 0 {
		return 0
	}
	return total
}
