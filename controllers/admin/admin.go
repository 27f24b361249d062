package adminController

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pricing"
)

// PromoRegistry is satisfied by *repository.PromoRepository.
type PromoRegistry interface {
	List(ctx context.Context) ([]models.PromoCode, error)
	Create(ctx context.Context, p *models.PromoCode) error
	SetActive(ctx context.Context, code string, active bool) error
}

// SettingsStore is satisfied by *repository.SettingsRepository.
type SettingsStore interface {
	DeliverySettings(ctx context.Context) (pricing.DeliverySettings, error)
	Save(ctx context.Context, s pricing.DeliverySettings) error
}
