package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/junaidrashid-git/storefront-api/services"
)

// GET /admin/delivery-settings
func GetDeliverySettings(store SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := store.DeliverySettings(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// PUT /admin/delivery-settings replaces every field. Zero thresholds switch
// the matching rule off.
func UpdateDeliverySettings(store SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input pricing.DeliverySettings
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if err := validateSettings(input); err != nil {
			respond.Error(c, err)
			return
		}
		if err := store.Save(c.Request.Context(), input); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, input)
	}
}

func validateSettings(s pricing.DeliverySettings) error {
	for name, v := range map[string]interface{ IsNegative() bool }{
		"express_base_fee":        s.ExpressBaseFee,
		"scheduled_base_fee":      s.ScheduledBaseFee,
		"free_delivery_threshold": s.FreeDeliveryThreshold,
		"high_value_threshold":    s.HighValueThreshold,
		"high_value_delivery_fee": s.HighValueDeliveryFee,
	} {
		if v.IsNegative() {
			return services.InvalidArgument("%s must not be negative", name)
		}
	}
	if s.ItemCountThreshold < 0 {
		return services.InvalidArgument("item_count_threshold must not be negative")
	}
	if s.ItemCountDiscountPercent.IsNegative() || s.ItemCountDiscountPercent.GreaterThan(hundred) {
		return services.InvalidArgument("item_count_discount_percent must be between 0 and 100")
	}
	return nil
}
