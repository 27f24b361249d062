package models

import (
	"time"

	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/shopspring/decimal"
)

// DeliverySettings is a single-row table (ID 1) overriding the configured defaults.
type DeliverySettings struct {
	ID                       uint            `gorm:"primaryKey" json:"-"`
	ExpressBaseFee           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"express_base_fee"`
	ScheduledBaseFee         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"scheduled_base_fee"`
	FreeDeliveryThreshold    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"free_delivery_threshold"`
	ItemCountThreshold       int             `gorm:"not null" json:"item_count_threshold"`
	ItemCountDiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"item_count_discount_percent"`
	HighValueThreshold       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"high_value_threshold"`
	HighValueDeliveryFee     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"high_value_delivery_fee"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

func (s DeliverySettings) Pricing() pricing.DeliverySettings {
	return pricing.DeliverySettings{
		ExpressBaseFee:           s.ExpressBaseFee,
		ScheduledBaseFee:         s.ScheduledBaseFee,
		FreeDeliveryThreshold:    s.FreeDeliveryThreshold,
		ItemCountThreshold:       s.ItemCountThreshold,
		ItemCountDiscountPercent: s.ItemCountDiscountPercent,
		HighValueThreshold:       s.HighValueThreshold,
		HighValueDeliveryFee:     s.HighValueDeliveryFee,
	}
}
