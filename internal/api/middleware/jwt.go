package middleware

import (
	"net/http"
	"strings"

	"avnu/internal/api/profile"

	"github.com/gin-gonic/gin"
)

// ProfileIDKey gin 上下文中保存 profile ID 的键。
const ProfileIDKey = "profileID"

// ProfileMiddleware 校验 profile 令牌并将 profileID 写入上下文。
//
// 令牌优先取 Authorization: Bearer；EventSource 无法设置请求头，
// 因此也接受 ?token= 查询参数。
func ProfileMiddleware(issuer *profile.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
				c.Abort()
				return
			}
			tokenStr = strings.TrimSpace(parts[1])
		}
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			c.Abort()
			return
		}

		profileID, err := issuer.Parse(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ProfileIDKey, profileID)
		c.Next()
	}
}

// ProfileID 返回当前请求的 profile ID。
func ProfileID(c *gin.Context) string {
	return c.GetString(ProfileIDKey)
}
