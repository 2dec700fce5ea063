package middleware

import (
	"net/http"
	"strings"

	"concierge/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthStaffMiddleware guards staff endpoints. Token issuance happens
// elsewhere; this only validates the shared-secret signature and the role
// claim.
func JWTAuthStaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractClaims(tokenString)
		if err != nil || role != "staff" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized staff access"})
			return
		}

		c.Set("staffID", subject)
		c.Set("isStaff", true)
		c.Next()
	}
}
