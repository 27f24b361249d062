package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU       string          `gorm:"size:64;uniqueIndex" json:"sku"`
	NameEn    string          `gorm:"not null" json:"name_en"` // English Name
	NameAr    string          `json:"name_ar"`                 // Arabic Name
	Image     string          `json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock     int             `gorm:"not null;check:stock >= 0" json:"stock"`
	IsActive  bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// DisplayName prefers the English name and falls back to the Arabic one.
func (p Product) DisplayName() string {
	if p.NameEn != "" {
		return p.NameEn
	}
	return p.NameAr
}
