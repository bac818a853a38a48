package auth

import (
	"net/http"

	"edugame/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// TeacherMiddleware creates a gin middleware that only lets teachers through.
// It must be used AFTER the standard AuthMiddleware.
func TeacherMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserIDKey); !exists {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if c.GetString(RoleKey) != jwt.RoleTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Teacher access required"})
			return
		}

		c.Next()
	}
}
