package auth

import (
	"edugame/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid. Browsers cannot set headers
// on a websocket upgrade, so a "token" query parameter is accepted as well.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			tokenString = c.Query("token")
		}
		if tokenString != "" {
			if identity, err := jwt.ParseToken(secret, tokenString); err == nil {
				c.Set(UserIDKey, identity.UserID)
				c.Set(RoleKey, identity.Role)
			}
		}
		c.Next()
	}
}
