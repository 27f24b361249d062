package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers/respond"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

type importResult struct {
	Created int `json:"created_count"`
	Updated int `json:"updated_count"`
	Skipped int `json:"skipped_count"`
}

// ImportProductsFromExcel reads a sheet in the export layout. Rows with a
// known ID update that product; the rest are created. Rows that fail to
// parse or validate are skipped and counted.
func ImportProductsFromExcel(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			respond.BadRequest(c, "Excel file is required")
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			respond.BadRequest(c, "Failed to open Excel file")
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			respond.BadRequest(c, "Failed to parse Excel file")
			return
		}
		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			respond.BadRequest(c, "Excel file is empty or missing header row")
			return
		}

		ctx := c.Request.Context()
		var result importResult
		for _, row := range xlFile.Sheets[0].Rows[1:] {
			product, id, ok := parseProductRow(row)
			if !ok {
				result.Skipped++
				continue
			}

			if id != 0 {
				if existing, err := catalog.Find(ctx, id); err == nil {
					product.ID = existing.ID
					product.CreatedAt = existing.CreatedAt
					if catalog.Save(ctx, &product) == nil {
						result.Updated++
					} else {
						result.Skipped++
					}
					continue
				}
			}

			if catalog.Create(ctx, &product) == nil {
				result.Created++
			} else {
				result.Skipped++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": result.Created,
			"updated_count": result.Updated,
			"skipped_count": result.Skipped,
		})
	}
}

func parseProductRow(row *xlsx.Row) (models.Product, uint, bool) {
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	price, err := decimal.NewFromString(get(4))
	if err != nil {
		return models.Product{}, 0, false
	}
	stock, err := strconv.Atoi(get(5))
	if err != nil {
		return models.Product{}, 0, false
	}
	active := true
	if v := get(6); v != "" {
		if active, err = strconv.ParseBool(v); err != nil {
			return models.Product{}, 0, false
		}
	}

	product := models.Product{
		SKU:      get(1),
		NameEn:   get(2),
		NameAr:   get(3),
		Price:    price,
		Stock:    stock,
		IsActive: active,
		Image:    get(7),
	}
	if normalize(&product) != nil {
		return models.Product{}, 0, false
	}

	var id uint
	if v := get(0); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return models.Product{}, 0, false
		}
		id = uint(n)
	}
	return product, id, true
}
