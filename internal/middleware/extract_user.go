package middleware

import (
	"net/http"

	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractUserID checks that AuthMiddleware left a uuid user id behind and
// republishes it as user_id_validated and on the request context.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			c.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id format", nil)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(userIDStr); err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id format", nil)
			c.Abort()
			return
		}

		c.Set("user_id_validated", userIDStr)
		c.Request = c.Request.WithContext(contextutil.WithUserID(c.Request.Context(), userIDStr))
		c.Next()
	}
}
