// Package pricing holds the pure money rules of the storefront: line totals,
// rounding, promo discounts and delivery fees. Nothing in here touches storage.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundCents rounds to two decimal places. Amounts handled here are never
// negative, so half-away-from-zero is the same as half-up.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundUnits rounds to a whole currency unit; fees have no sub-unit part.
func RoundUnits(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// LineTotal is price × quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ClampDiscount keeps a discount within [0, subtotal] so a large fixed promo
// can never push an order total below its delivery fee.
func ClampDiscount(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// Total is subtotal + delivery fee − discount.
func Total(subtotal, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(deliveryFee).Sub(discount)
}
