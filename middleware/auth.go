package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"food-shop/services"

	"github.com/gin-gonic/gin"
)

const UserContextKey = "userID"

// AuthMiddleware resolves the bearer access token to a user id and stores it
// in the gin context. Requests without a valid token are rejected.
func AuthMiddleware(tokens services.TokenServiceAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "), "access")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}

		c.Set(UserContextKey, uint(userID))
		c.Next()
	}
}

// GetUserID returns the authenticated user id stored by AuthMiddleware
func GetUserID(c *gin.Context) (uint, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(uint); ok && id != 0 {
			return id, nil
		}
	}
	return 0, errors.New("user ID not found in context")
}
