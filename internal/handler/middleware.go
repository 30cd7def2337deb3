package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/educado/backend/internal/pkg/security"
)

const ctxUserID = "userID"

// RequireAuth 校验 Bearer token，把用户 ID 放入请求上下文
func RequireAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}
