package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAPIKey(d.AdminAPIKey))
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(d.Users))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.Catalog))
			productAdmin.GET("", productcontroller.GetProducts(d.Catalog, false))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Catalog))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Catalog))
			productAdmin.GET("/:id", productcontroller.GetProductByID(d.Catalog, false))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.Catalog))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Catalog))
		}

		// ─────────── Promo Codes ───────────
		promoAdmin := adminGroup.Group("/promos")
		{
			promoAdmin.POST("", adminController.CreatePromo(d.Promos))
			promoAdmin.GET("", adminController.GetAllPromos(d.Promos))
			promoAdmin.PUT("/:code/active", adminController.SetPromoActive(d.Promos))
		}

		// ─────────── Delivery Settings ───────────
		adminGroup.GET("/delivery-settings", adminController.GetDeliverySettings(d.Settings))
		adminGroup.PUT("/delivery-settings", adminController.UpdateDeliverySettings(d.Settings))

		SetupOrderRoutes(adminGroup, d)
	}
}
