package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	SKU      string          `json:"sku"`
	NameEn   string          `json:"name_en"`
	NameAr   string          `json:"name_ar"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	IsActive *bool           `json:"is_active"`
}

// UpdateProductInput only touches the fields that are present.
type UpdateProductInput struct {
	SKU      *string          `json:"sku"`
	NameEn   *string          `json:"name_en"`
	NameAr   *string          `json:"name_ar"`
	Image    *string          `json:"image"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock"`
	IsActive *bool            `json:"is_active"`
}

// CreateProduct adds a product. New products are active unless told otherwise.
func CreateProduct(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		product := models.Product{
			SKU:      input.SKU,
			NameEn:   input.NameEn,
			NameAr:   input.NameAr,
			Image:    input.Image,
			Price:    input.Price,
			Stock:    input.Stock,
			IsActive: input.IsActive == nil || *input.IsActive,
		}
		if err := normalize(&product); err != nil {
			respond.Error(c, err)
			return
		}
		if err := catalog.Create(c.Request.Context(), &product); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct changes price, stock, names or the active flag. Carts pick
// the new price up on their next quote; placed orders keep their snapshot.
func UpdateProduct(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}

		product, err := catalog.Find(c.Request.Context(), id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if input.SKU != nil {
			product.SKU = *input.SKU
		}
		if input.NameEn != nil {
			product.NameEn = *input.NameEn
		}
		if input.NameAr != nil {
			product.NameAr = *input.NameAr
		}
		if input.Image != nil {
			product.Image = *input.Image
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := normalize(product); err != nil {
			respond.Error(c, err)
			return
		}
		if err := catalog.Save(c.Request.Context(), product); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
