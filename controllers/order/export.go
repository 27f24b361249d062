package orderControllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "OrderNumber", "UserID", "Status", "PaymentMethod", "PaymentStatus",
	"DeliveryType", "Subtotal", "DeliveryFee", "Discount", "Total", "PromoCode",
	"Items", "CreatedAt", "DeliveredAt",
}

// buildOrdersSheet renders one row per order.
func buildOrdersSheet(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(o.UserID)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(string(o.PaymentStatus))
		row.AddCell().SetValue(string(o.DeliveryType))
		row.AddCell().SetValue(o.Subtotal.StringFixed(2))
		row.AddCell().SetValue(o.DeliveryFee.StringFixed(2))
		row.AddCell().SetValue(o.Discount.StringFixed(2))
		row.AddCell().SetValue(o.Total.StringFixed(2))

		promo := ""
		if o.PromoCode != nil {
			promo = *o.PromoCode
		}
		row.AddCell().SetValue(promo)

		var items []string
		for _, it := range o.Items {
			items = append(items, it.SKU+" x"+strconv.Itoa(it.Quantity))
		}
		row.AddCell().SetValue(strings.Join(items, ", "))

		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		delivered := ""
		if o.DeliveredAt != nil {
			delivered = o.DeliveredAt.Format("2006-01-02 15:04:05")
		}
		row.AddCell().SetValue(delivered)
	}
	return file, nil
}

// GET /admin/orders/export-excel
func ExportOrdersToExcel(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		file, err := buildOrdersSheet(orders)
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
