package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const GatewayKeyHeader = "X-Gateway-Key"

// GatewayKeyMiddleware rejects requests that do not carry the shared gateway
// key. An empty key disables the check.
func GatewayKeyMiddleware(key string) gin.HandlerFunc {
	if key == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		clientKey := c.GetHeader(GatewayKeyHeader)
		if subtle.ConstantTimeCompare([]byte(clientKey), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "request did not come through the gateway"})
			return
		}
		c.Next()
	}
}
