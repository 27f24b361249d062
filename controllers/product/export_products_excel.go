package productcontroller

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/tealeg/xlsx"
)

// Columns shared by export and import.
var productHeaders = []string{
	"ID", "SKU", "NameEn", "NameAr", "Price", "Stock", "IsActive", "Image", "CreatedAt", "UpdatedAt",
}

func buildProductsSheet(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range productHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.SKU)
		row.AddCell().SetValue(p.NameEn)
		row.AddCell().SetValue(p.NameAr)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(boolCell(p.IsActive))
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

func boolCell(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func ExportProductsToExcel(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		file, err := buildProductsSheet(products)
		if err != nil {
			respond.Error(c, err)
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}
