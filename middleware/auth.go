package middleware

import (
	"net/http"
	"strings"

	"salonflow/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthStaffMiddleware guards staff-only endpoints (working-hours setup,
// appointment lifecycle operations). The subject claim is stored on the
// context as "staffID".
func JWTAuthStaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		staffID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set("staffID", staffID)
		c.Next()
	}
}
