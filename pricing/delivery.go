package pricing

import "github.com/shopspring/decimal"

type DeliveryType string

const (
	DeliveryExpress   DeliveryType = "express"
	DeliveryScheduled DeliveryType = "scheduled"
)

func (t DeliveryType) Valid() bool {
	return t == DeliveryExpress || t == DeliveryScheduled
}

// DeliverySettings is the fee configuration snapshot. A zero threshold
// disables the rule that depends on it.
type DeliverySettings struct {
	ExpressBaseFee           decimal.Decimal `json:"express_base_fee"`
	ScheduledBaseFee         decimal.Decimal `json:"scheduled_base_fee"`
	FreeDeliveryThreshold    decimal.Decimal `json:"free_delivery_threshold"`
	ItemCountThreshold       int             `json:"item_count_threshold"`
	ItemCountDiscountPercent decimal.Decimal `json:"item_count_discount_percent"`
	HighValueThreshold       decimal.Decimal `json:"high_value_threshold"`
	HighValueDeliveryFee     decimal.Decimal `json:"high_value_delivery_fee"`
}

// DeliveryFee applies the first matching rule:
//  1. scheduled delivery at or above the free threshold costs nothing;
//  2. any order at or above the high value threshold pays the high value fee;
//  3. otherwise the base fee of the delivery type, reduced by the item count
//     discount once the cart holds enough items.
func DeliveryFee(subtotal decimal.Decimal, deliveryType DeliveryType, itemCount int, s DeliverySettings) decimal.Decimal {
	if deliveryType == DeliveryScheduled && reached(subtotal, s.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	if reached(subtotal, s.HighValueThreshold) {
		return nonNegative(RoundUnits(s.HighValueDeliveryFee))
	}

	fee := s.ScheduledBaseFee
	if deliveryType == DeliveryExpress {
		fee = s.ExpressBaseFee
	}
	if s.ItemCountThreshold > 0 && itemCount >= s.ItemCountThreshold && s.ItemCountDiscountPercent.IsPositive() {
		fee = fee.Mul(hundred.Sub(s.ItemCountDiscountPercent)).Div(hundred)
	}
	return nonNegative(RoundUnits(fee))
}

// DeliveryOptions is what a cart quote shows so the customer can compare
// both delivery types before checkout.
type DeliveryOptions struct {
	Express            decimal.Decimal `json:"express"`
	Scheduled          decimal.Decimal `json:"scheduled"`
	FreeThreshold      decimal.Decimal `json:"free_threshold"`
	HighValueThreshold decimal.Decimal `json:"high_value_threshold"`
	ItemCountThreshold int             `json:"item_count_threshold"`
	ItemCountDiscount  decimal.Decimal `json:"item_count_discount"`
}

func QuoteDelivery(subtotal decimal.Decimal, itemCount int, s DeliverySettings) DeliveryOptions {
	return DeliveryOptions{
		Express:            DeliveryFee(subtotal, DeliveryExpress, itemCount, s),
		Scheduled:          DeliveryFee(subtotal, DeliveryScheduled, itemCount, s),
		FreeThreshold:      s.FreeDeliveryThreshold,
		HighValueThreshold: s.HighValueThreshold,
		ItemCountThreshold: s.ItemCountThreshold,
		ItemCountDiscount:  s.ItemCountDiscountPercent,
	}
}

func reached(amount, threshold decimal.Decimal) bool {
	return threshold.IsPositive() && amount.GreaterThanOrEqual(threshold)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
