package middleware

import (
	"net/http"

	"auth/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireRole restricts a route to users carrying one specific role
func RequireRole(db *gorm.DB, role string) gin.HandlerFunc {
	return RequireAnyRole(db, role)
}

// RequireAnyRole restricts a route to users carrying at least one of the
// listed roles. Roles live on the user record, not in the token, so a role
// granted mid-session takes effect on the next request.
func RequireAnyRole(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		for _, role := range roles {
			if user.HasRole(role) {
				c.Set("user_roles", user.Roles)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":          "Insufficient permissions",
			"required_roles": roles,
		})
	}
}

func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}
