package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type PromoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var p models.PromoCode
	err := r.db.WithContext(ctx).Where("code = ?", models.CanonicalPromoCode(code)).First(&p).Error
	if err != nil {
		return nil, translate(err, "find promo")
	}
	return &p, nil
}

func (r *PromoRepository) FindByCodeForUpdate(ctx context.Context, code string) (*models.PromoCode, error) {
	var p models.PromoCode
	err := r.db.WithContext(ctx).Clauses(forUpdate).
		Where("code = ?", models.CanonicalPromoCode(code)).First(&p).Error
	if err != nil {
		return nil, translate(err, "lock promo")
	}
	return &p, nil
}

// IncrementUsage fails with models.ErrConflict once the usage limit is reached.
func (r *PromoRepository) IncrementUsage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return translate(res.Error, "increment promo usage")
	}
	if res.RowsAffected == 0 {
		return models.ErrConflict
	}
	return nil
}

func (r *PromoRepository) List(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&promos).Error
	return promos, translate(err, "list promos")
}

func (r *PromoRepository) Create(ctx context.Context, p *models.PromoCode) error {
	p.Code = models.CanonicalPromoCode(p.Code)
	return translate(r.db.WithContext(ctx).Create(p).Error, "create promo")
}

func (r *PromoRepository) SetActive(ctx context.Context, code string, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("code = ?", models.CanonicalPromoCode(code)).
		Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error, "update promo")
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
