package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsRowID = 1

// SettingsRepository serves delivery settings from the single settings row,
// falling back to the configured defaults until an admin saves one.
type SettingsRepository struct {
	db       *gorm.DB
	defaults pricing.DeliverySettings
}

func NewSettingsRepository(db *gorm.DB, defaults pricing.DeliverySettings) *SettingsRepository {
	return &SettingsRepository{db: db, defaults: defaults}
}

func (r *SettingsRepository) DeliverySettings(ctx context.Context) (pricing.DeliverySettings, error) {
	var row models.DeliverySettings
	err := r.db.WithContext(ctx).First(&row, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.defaults, nil
	}
	if err != nil {
		return pricing.DeliverySettings{}, errors.Wrap(err, "load delivery settings")
	}
	return row.Pricing(), nil
}

func (r *SettingsRepository) Save(ctx context.Context, s pricing.DeliverySettings) error {
	row := models.DeliverySettings{
		ID:                       settingsRowID,
		ExpressBaseFee:           s.ExpressBaseFee,
		ScheduledBaseFee:         s.ScheduledBaseFee,
		FreeDeliveryThreshold:    s.FreeDeliveryThreshold,
		ItemCountThreshold:       s.ItemCountThreshold,
		ItemCountDiscountPercent: s.ItemCountDiscountPercent,
		HighValueThreshold:       s.HighValueThreshold,
		HighValueDeliveryFee:     s.HighValueDeliveryFee,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	return errors.Wrap(err, "save delivery settings")
}
