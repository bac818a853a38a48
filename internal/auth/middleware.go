package auth

import (
	"net/http"
	"strings"

	"edugame/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

// AuthMiddleware requires a valid bearer token and stores the caller's user ID
// and role in the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		identity, err := jwt.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(RoleKey, identity.Role)
		c.Next()
	}
}

// UserID returns the authenticated caller. It must be used AFTER AuthMiddleware.
func UserID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}
