package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD"

// NewOrderNumber builds "ORD-<base36 millis>-<6 random hex>". The time part
// keeps numbers roughly sortable, the random part keeps them unguessable.
func NewOrderNumber(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return orderNumberPrefix + "-" + ts + "-" + random
}
