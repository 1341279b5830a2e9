package middleware

import "github.com/gin-gonic/gin"

// userIDKey stores the authenticated caller's ID. The typed key avoids
// collisions with other context values.
const userIDKey = contextKey("userID")

// GetUserIDFromContext returns the authenticated user ID set by the auth
// middleware, checking the gin context first and the request context as a
// fallback.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok
	}
	if v := c.Request.Context().Value(userIDKey); v != nil {
		userID, ok := v.(string)
		return userID, ok
	}
	return "", false
}
