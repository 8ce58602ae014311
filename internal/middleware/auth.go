package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware consumes the identity established by the external auth
// gateway. Authentication itself is out of scope here; by the time a request
// reaches this service the gateway has verified the caller and stamped the
// X-User-ID header.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

// OptionalIdentityMiddleware sets the user id when present without requiring
// it, for endpoints that serve both anonymous and identified callers.
func OptionalIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	}
}
