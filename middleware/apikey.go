package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// RequireAPIKey guards admin routes with the X-API-KEY header. An optional
// X-Admin-Actor header names the operator in status history.
func RequireAPIKey(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader("X-API-KEY"))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}

		actor := c.GetHeader("X-Admin-Actor")
		if actor == "" {
			actor = "admin"
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func Actor(c *gin.Context) string {
	return c.GetString(actorKey)
}
