package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.RequireUser(d.Tokens))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("", userControllers.GetUser(d.Users))               // GET /user
		userGroup.PUT("", userControllers.UpdateUser(d.Users))            // PUT /user
		userGroup.POST("/addresses", userControllers.AddAddress(d.Users)) // POST /user/addresses

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(d.Carts))
			cartGroup.DELETE("", cartControllers.ClearUserCart(d.Carts))
			cartGroup.POST("/items", cartControllers.AddCartItem(d.Carts))
			cartGroup.PUT("/items/:product_id", cartControllers.UpdateCartItem(d.Carts))
			cartGroup.DELETE("/items/:product_id", cartControllers.DeleteCartItem(d.Carts))
			cartGroup.POST("/promo", cartControllers.ApplyPromo(d.Carts))
			cartGroup.DELETE("/promo", cartControllers.RemovePromo(d.Carts))
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("", orderControllers.PlaceOrderHandler(d.Orders))
			orderGroup.GET("", orderControllers.GetUserOrdersHandler(d.Orders))
			orderGroup.GET("/:id", orderControllers.GetUserOrderHandler(d.Orders))
			orderGroup.POST("/:id/cancel", orderControllers.CancelOrderHandler(d.Orders))
		}

		// ──────────────── Browse Products ────────────────
		userGroup.GET("/products", productcontroller.GetProducts(d.Catalog, true))
		userGroup.GET("/products/:id", productcontroller.GetProductByID(d.Catalog, true))
	}
}
