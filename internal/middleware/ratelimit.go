package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	limit "github.com/yangxikun/gin-limit-by-key"
	"golang.org/x/time/rate"
)

// 호출자별 limiter 를 보관하는 시간
const limiterTTL = time.Hour

// RateLimitMiddleware limits requests per caller id, falling back to the
// client IP for requests without one. perSecond <= 0 disables limiting.
func RateLimitMiddleware(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	return limit.NewRateLimiter(func(c *gin.Context) string {
		if idx := c.GetHeader(UserIdxHeader); idx != "" {
			return "user:" + idx
		}
		return "ip:" + c.ClientIP()
	}, func(c *gin.Context) (*rate.Limiter, time.Duration) {
		return rate.NewLimiter(rate.Limit(perSecond), burst), limiterTTL
	}, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	})
}
