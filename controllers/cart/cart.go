package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/services"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type QuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type PromoInput struct {
	Code string `json:"code" binding:"required"`
}

// writeQuote answers a cart mutation with the freshly priced cart.
func writeQuote(c *gin.Context, svc *services.CartService, status int) {
	quote, err := svc.Quote(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(status, quote)
}

// GET /user/cart
func GetUserCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeQuote(c, svc, http.StatusOK)
	}
}

// POST /user/cart/items
func AddCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if err := svc.AddItem(c.Request.Context(), middleware.UserID(c), input.ProductID, input.Quantity); err != nil {
			respond.Error(c, err)
			return
		}
		writeQuote(c, svc, http.StatusOK)
	}
}

// PUT /user/cart/items/:product_id
func UpdateCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := respond.ID(c, "product_id")
		if !ok {
			return
		}
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if err := svc.UpdateItem(c.Request.Context(), middleware.UserID(c), productID, input.Quantity); err != nil {
			respond.Error(c, err)
			return
		}
		writeQuote(c, svc, http.StatusOK)
	}
}

// DELETE /user/cart/items/:product_id
func DeleteCartItem(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := respond.ID(c, "product_id")
		if !ok {
			return
		}
		if err := svc.RemoveItem(c.Request.Context(), middleware.UserID(c), productID); err != nil {
			respond.Error(c, err)
			return
		}
		writeQuote(c, svc, http.StatusOK)
	}
}

// DELETE /user/cart
func ClearUserCart(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearCart(c.Request.Context(), middleware.UserID(c)); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// POST /user/cart/promo
func ApplyPromo(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PromoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if err := svc.ApplyPromo(c.Request.Context(), middleware.UserID(c), input.Code); err != nil {
			respond.Error(c, err)
			return
		}
		writeQuote(c, svc, http.StatusOK)
	}
}

// DELETE /user/cart/promo
func RemovePromo(svc *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemovePromo(c.Request.Context(), middleware.UserID(c)); err != nil {
			respond.Error(c, err)
			return
		}
		writeQuote(c, svc, http.StatusOK)
	}
}
