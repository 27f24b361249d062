package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, translate(err, "find product")
	}
	return &p, nil
}

func (r *ProductRepository) FindMany(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	out := make(map[uint]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, translate(err, "find products")
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

func (r *ProductRepository) FindForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Clauses(forUpdate).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "lock product")
	}
	return &p, nil
}

// DecrementStock only matches rows that still hold enough stock, so the
// check and the write are one statement.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return translate(res.Error, "decrement stock")
	}
	if res.RowsAffected == 0 {
		return models.ErrConflict
	}
	return nil
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id uint, quantity int) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return translate(res.Error, "increment stock")
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// ListActive returns the products customers can browse, newest first.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id DESC").Find(&products).Error
	return products, translate(err, "list products")
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("id DESC").Find(&products).Error
	return products, translate(err, "list products")
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "create product")
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Save(p).Error, "save product")
}

// Delete soft-deletes; order items keep their snapshot.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
