package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
)

// SetupOrderRoutes registers the order back-office under an already guarded group.
func SetupOrderRoutes(adminGroup *gin.RouterGroup, d Deps) {
	orders := adminGroup.Group("/orders")
	{
		orders.GET("", orderControllers.GetAllOrdersHandler(d.Orders))

		// websocket endpoint for real-time order updates
		orders.GET("/ws", d.Hub.ServeWS)

		orders.GET("/export-excel", orderControllers.ExportOrdersToExcel(d.Orders))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(d.Orders))
		orders.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(d.Orders))
		orders.PUT("/:id/payment-status", orderControllers.UpdatePaymentStatusHandler(d.Orders))
		orders.PUT("/:id/driver", orderControllers.AssignDriverHandler(d.Orders))
	}
}
