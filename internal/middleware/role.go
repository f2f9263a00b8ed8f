package middleware

import (
	"net/http" // HTTP status codes
	"slices"   // Role membership

	"voucher_wallet/internal/domain" // Roles

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole lets the request through only when the token role is one of roles.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(RoleKey) // Get role from context
		// Check if role exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role, _ := value.(domain.Role)
		if !slices.Contains(roles, role) {
			// Authenticated but not allowed here
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next() // Role allowed, proceed to the next handler
	}
}
