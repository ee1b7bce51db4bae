package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	UserIdxHeader = "X-User-Idx"
	// gin.Context 에 저장되는 키
	UserIdxKey = "userIdx"
)

// UserIdxMiddleware 는 게이트웨이가 인증 후 붙여준 X-User-Idx 를 꺼내 저장함.
// 값 자체를 재검증하지 않음 (게이트웨이 신뢰 경계)
func UserIdxMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIdx := strings.TrimSpace(c.GetHeader(UserIdxHeader))
		if userIdx == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(UserIdxKey, userIdx)
		c.Next()
	}
}

// UserIdx returns the caller id stored by UserIdxMiddleware.
func UserIdx(c *gin.Context) string {
	return c.GetString(UserIdxKey)
}
