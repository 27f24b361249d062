package orderControllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/junaidrashid-git/storefront-api/services"
)

const dateLayout = "2006-01-02"

// -------- Request Structs --------

type PlaceOrderRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	DeliveryType  string `json:"delivery_type" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	ScheduledDate string `json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime string `json:"scheduled_time"` // slot label, e.g. "10:00-12:00"
	Notes         string `json:"notes"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
}

func (r PlaceOrderRequest) input() (services.PlaceOrderInput, error) {
	in := services.PlaceOrderInput{
		AddressID:     r.AddressID,
		DeliveryType:  pricing.DeliveryType(strings.ToLower(strings.TrimSpace(r.DeliveryType))),
		PaymentMethod: models.PaymentMethod(strings.ToLower(strings.TrimSpace(r.PaymentMethod))),
		Notes:         strings.TrimSpace(r.Notes),
	}
	if r.ScheduledDate != "" {
		d, err := time.Parse(dateLayout, r.ScheduledDate)
		if err != nil {
			return in, services.InvalidArgument("scheduled_date must be YYYY-MM-DD")
		}
		in.ScheduledDate = &d
	}
	if slot := strings.TrimSpace(r.ScheduledTime); slot != "" {
		in.ScheduledTime = &slot
	}
	return in, nil
}

// -------- User Handlers --------

// POST /user/orders
func PlaceOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}
		in, err := req.input()
		if err != nil {
			respond.Error(c, err)
			return
		}
		summary, err := svc.PlaceOrder(c.Request.Context(), middleware.UserID(c), in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

// GET /user/orders
func GetUserOrdersHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListForUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:id
func GetUserOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		order, err := svc.GetForUser(c.Request.Context(), middleware.UserID(c), id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /user/orders/:id/cancel
func CancelOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		var req CancelOrderRequest
		// The body is optional.
		_ = c.ShouldBindJSON(&req)
		if err := svc.CancelOrder(c.Request.Context(), middleware.UserID(c), id, req.Reason); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
	}
}

// -------- Admin Handlers --------

// GET /admin/orders
func GetAllOrdersHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders/:id
func GetOrderByIDHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		order, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:id/status
func UpdateOrderStatusHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			respond.BadRequest(c, err.Error())
			return
		}
		if err := svc.UpdateStatus(c.Request.Context(), id, status, strings.TrimSpace(req.Note), middleware.Actor(c)); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// PUT /admin/orders/:id/payment-status
func UpdatePaymentStatusHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}
		status, err := models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			respond.BadRequest(c, err.Error())
			return
		}
		if err := svc.UpdatePaymentStatus(c.Request.Context(), id, status); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}

// PUT /admin/orders/:id/driver
func AssignDriverHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "id")
		if !ok {
			return
		}
		var req AssignDriverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}
		if err := svc.AssignDriver(c.Request.Context(), id, req.DriverID); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Driver assigned"})
	}
}
