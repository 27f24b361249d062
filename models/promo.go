package models

import (
	"strings"
	"time"

	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/shopspring/decimal"
)

type PromoCode struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	Code           string              `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Type           pricing.PromoType   `gorm:"type:VARCHAR(20);not null" json:"type"`
	Value          decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"value"`
	MinOrderAmount decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"min_order_amount"`
	MaxDiscount    decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"max_discount"`
	StartDate      time.Time           `gorm:"not null" json:"start_date"`
	EndDate        time.Time           `gorm:"not null" json:"end_date"`
	UsageLimit     *int                `json:"usage_limit"`
	UsedCount      int                 `gorm:"not null;default:0" json:"used_count"`
	IsActive       bool                `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CanonicalPromoCode is the stored form of a code: trimmed, upper case.
func CanonicalPromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValid reports whether the promo can be used at the given instant.
func (p *PromoCode) IsValid(now time.Time) bool {
	if p == nil || !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	return p.UsageLimit == nil || p.UsedCount < *p.UsageLimit
}

func (p *PromoCode) Rule() pricing.PromoRule {
	return pricing.PromoRule{
		Type:           p.Type,
		Value:          p.Value,
		MinOrderAmount: p.MinOrderAmount,
		MaxDiscount:    p.MaxDiscount,
	}
}
