package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront-backend/internal/shared/response"
)

// AdminMiddleware gates a route group to the admin role. It expects
// AuthMiddleware to have run first and stored the role in the context.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		role, ok := roleValue.(string)
		if !ok || role != "admin" {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
