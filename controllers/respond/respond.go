// Package respond turns service errors into JSON error responses.
package respond

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/pkg/errors"
)

var statusByKind = map[services.Kind]int{
	services.KindNotFound:          http.StatusNotFound,
	services.KindInsufficientStock: http.StatusConflict,
	services.KindInvalidPromo:      http.StatusUnprocessableEntity,
	services.KindEmptyCart:         http.StatusBadRequest,
	services.KindInvalidState:      http.StatusConflict,
	services.KindInvalidArgument:   http.StatusBadRequest,
}

// Error writes err. Typed service errors keep their message; anything else
// is attached to the context for the request logger and hidden behind a 500.
func Error(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if status, ok := statusByKind[kind]; ok {
		c.JSON(status, gin.H{"error": err.Error(), "code": kind.String()})
		return
	}
	if errors.Is(err, models.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": services.KindNotFound.String()})
		return
	}
	if errors.Is(err, models.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "already exists", "code": "CONFLICT"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": services.KindInternal.String()})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": services.KindInvalidArgument.String()})
}

// ID parses a positive numeric path parameter, writing a 400 when it is not one.
func ID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
