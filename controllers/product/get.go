package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/services"
)

// GetProducts lists the catalogue. Customers only see active products.
func GetProducts(catalog Catalog, activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := catalog.List
		if activeOnly {
			list = catalog.ListActive
		}
		products, err := list(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProductByID returns a single product.
// URL param: /products/:id
func GetProductByID(catalog Catalog, activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		product, err := catalog.Find(c.Request.Context(), id)
		if err == nil && activeOnly && !product.IsActive {
			err = services.NotFound("Product not found")
		}
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
