package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct {
	db *gorm.DB
}

func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	db := r.db.WithContext(ctx)

	// Racing first accesses both insert; the unique user_id index keeps one.
	cart := models.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cart).Error; err != nil {
		return nil, translate(err, "create cart")
	}

	var out models.Cart
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at ASC")
	}).Where("user_id = ?", userID).First(&out).Error
	if err != nil {
		return nil, translate(err, "load cart")
	}
	return &out, nil
}

func (r *CartRepository) GetForUpdate(ctx context.Context, userID string) (*models.Cart, error) {
	db := r.db.WithContext(ctx)

	var locked models.Cart
	if err := db.Clauses(forUpdate).Where("user_id = ?", userID).First(&locked).Error; err != nil {
		return nil, translate(err, "lock cart")
	}

	// Items are read after the lock so a checkout that waited sees the
	// cart as the previous one left it.
	var items []models.CartItem
	err := db.Where("cart_id = ?", locked.ID).Order("added_at ASC").Find(&items).Error
	if err != nil {
		return nil, translate(err, "load cart items")
	}
	locked.Items = items
	return &locked, nil
}

func (r *CartRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == 0 {
		return translate(r.db.WithContext(ctx).Create(item).Error, "add cart item")
	}
	err := r.db.WithContext(ctx).Model(item).
		Updates(map[string]interface{}{"quantity": item.Quantity, "added_at": item.AddedAt}).Error
	return translate(err, "update cart item")
}

func (r *CartRepository) DeleteItem(ctx context.Context, cartID, productID uint) error {
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
	return translate(err, "remove cart item")
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID uint) error {
	err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	return translate(err, "clear cart")
}

func (r *CartRepository) SetPromoCode(ctx context.Context, cartID uint, code *string) error {
	err := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("promo_code", code).Error
	return translate(err, "set cart promo")
}
