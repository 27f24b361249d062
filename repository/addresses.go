package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type AddressRepository struct {
	db *gorm.DB
}

func (r *AddressRepository) BelongsTo(ctx context.Context, userID string, addressID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "check address")
	}
	return n > 0, nil
}
