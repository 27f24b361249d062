package pricing

import "github.com/shopspring/decimal"

type PromoType string

const (
	PromoPercentage PromoType = "percentage"
	PromoFixed      PromoType = "fixed"
)

func (t PromoType) Valid() bool {
	return t == PromoPercentage || t == PromoFixed
}

// PromoRule is the part of a promo code that affects the amount.
type PromoRule struct {
	Type           PromoType
	Value          decimal.Decimal
	MinOrderAmount decimal.NullDecimal
	MaxDiscount    decimal.NullDecimal
}

// Discount returns the promo discount for a subtotal. Below the minimum order
// amount the promo is silently inapplicable and the result is zero.
func Discount(subtotal decimal.Decimal, rule PromoRule) decimal.Decimal {
	if rule.MinOrderAmount.Valid && subtotal.LessThan(rule.MinOrderAmount.Decimal) {
		return decimal.Zero
	}

	raw := rule.Value
	if rule.Type == PromoPercentage {
		raw = subtotal.Mul(rule.Value).Div(hundred)
	}
	if rule.MaxDiscount.Valid && raw.GreaterThan(rule.MaxDiscount.Decimal) {
		raw = rule.MaxDiscount.Decimal
	}
	if raw.IsNegative() {
		return decimal.Zero
	}
	return RoundCents(raw)
}
