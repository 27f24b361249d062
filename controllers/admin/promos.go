package adminController

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CreatePromoInput struct {
	Code           string              `json:"code" binding:"required"`
	Type           pricing.PromoType   `json:"type" binding:"required"`
	Value          decimal.Decimal     `json:"value"`
	MinOrderAmount decimal.NullDecimal `json:"min_order_amount"`
	MaxDiscount    decimal.NullDecimal `json:"max_discount"`
	StartDate      time.Time           `json:"start_date" binding:"required"`
	EndDate        time.Time           `json:"end_date" binding:"required"`
	UsageLimit     *int                `json:"usage_limit"`
	IsActive       *bool               `json:"is_active"`
}

type PromoActiveInput struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (in CreatePromoInput) promo() (*models.PromoCode, error) {
	p := &models.PromoCode{
		Code:           models.CanonicalPromoCode(in.Code),
		Type:           pricing.PromoType(strings.ToLower(string(in.Type))),
		Value:          in.Value,
		MinOrderAmount: in.MinOrderAmount,
		MaxDiscount:    in.MaxDiscount,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		UsageLimit:     in.UsageLimit,
		IsActive:       in.IsActive == nil || *in.IsActive,
	}

	switch {
	case p.Code == "":
		return nil, services.InvalidArgument("code is required")
	case !p.Type.Valid():
		return nil, services.InvalidArgument("type must be percentage or fixed")
	case !p.Value.IsPositive():
		return nil, services.InvalidArgument("value must be positive")
	case p.Type == pricing.PromoPercentage && p.Value.GreaterThan(hundred):
		return nil, services.InvalidArgument("percentage cannot exceed 100")
	case !p.EndDate.After(p.StartDate):
		return nil, services.InvalidArgument("end_date must be after start_date")
	case p.UsageLimit != nil && *p.UsageLimit < 1:
		return nil, services.InvalidArgument("usage_limit must be at least 1")
	case p.MinOrderAmount.Valid && p.MinOrderAmount.Decimal.IsNegative():
		return nil, services.InvalidArgument("min_order_amount must not be negative")
	case p.MaxDiscount.Valid && !p.MaxDiscount.Decimal.IsPositive():
		return nil, services.InvalidArgument("max_discount must be positive")
	}
	return p, nil
}

// POST /admin/promos
func CreatePromo(registry PromoRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreatePromoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		promo, err := input.promo()
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := registry.Create(c.Request.Context(), promo); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, promo)
	}
}

// GET /admin/promos
func GetAllPromos(registry PromoRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		promos, err := registry.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, promos)
	}
}

// PUT /admin/promos/:code/active
func SetPromoActive(registry PromoRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PromoActiveInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if err := registry.SetActive(c.Request.Context(), c.Param("code"), *input.IsActive); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Promo code updated"})
	}
}
