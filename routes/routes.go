package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/services"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Tokens      *auth.Tokens
	AdminAPIKey string

	Carts    *services.CartService
	Orders   *services.OrderService
	Hub      *orderControllers.Hub
	Catalog  productcontroller.Catalog
	Promos   adminController.PromoRegistry
	Settings adminController.SettingsStore
	Users    userControllers.Profiles
}

// SetupRoutes is the single entry-point that wires up the User and Admin route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// User routes (JWT-protected)
	SetupUserRoutes(r, d)

	// Admin routes (API-Key-protected)
	SetupAdminRoutes(r, d)
}
