package productcontroller

import (
	"context"
	"strings"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/junaidrashid-git/storefront-api/services"
)

// Catalog is the product store the handlers need; *repository.ProductRepository
// satisfies it.
type Catalog interface {
	Find(ctx context.Context, id uint) (*models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
}

// normalize trims names and rounds the price, then checks what the cart and
// settlement code relies on: a name, a non-negative price and stock.
func normalize(p *models.Product) error {
	p.SKU = strings.TrimSpace(p.SKU)
	p.NameEn = strings.TrimSpace(p.NameEn)
	p.NameAr = strings.TrimSpace(p.NameAr)
	p.Price = pricing.RoundCents(p.Price)

	if p.NameEn == "" && p.NameAr == "" {
		return services.InvalidArgument("name_en or name_ar is required")
	}
	if p.Price.IsNegative() {
		return services.InvalidArgument("price must not be negative")
	}
	if p.Stock < 0 {
		return services.InvalidArgument("stock must not be negative")
	}
	return nil
}
