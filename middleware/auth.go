package middleware

import (
	"errors"
	"net/http"
	"strings"

	"seenaf/database"
	"seenaf/models"
	"seenaf/utils"
	"seenaf/utils/permissions"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	userContextKey = "auth_user"
	roleContextKey = "auth_role"
)

// extractToken reads the auth token from the cookie set at login, falling
// back to a bearer Authorization header for API clients
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
		return cookie
	}
	header := c.Request.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthMiddleware authenticates the request and resolves the role claim.
// The role comes from the role_assignments table, once, here. A failure to
// resolve the role blocks the request; it never falls back to a guessed role.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "No token provided")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found")
			c.Abort()
			return
		}

		if user.Blocked {
			response.Error(c, http.StatusForbidden, "Your account has been blocked")
			c.Abort()
			return
		}

		var assignment models.RoleAssignment
		if err := database.DB.First(&assignment, "user_id = ?", user.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, http.StatusForbidden, "No role assigned to this account")
			} else {
				response.Error(c, http.StatusInternalServerError, "Failed to resolve role")
			}
			c.Abort()
			return
		}

		c.Set(userContextKey, &user)
		c.Set(roleContextKey, assignment.Role)
		c.Next()
	}
}

// AdminMiddleware requires the admin capability on top of AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := GetActorFromRequest(c)
		if err != nil {
			return
		}
		if !permissions.IsAdmin(actor) {
			response.Error(c, http.StatusForbidden, "Admin capability required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserFromRequest returns the authenticated user, writing the error
// response itself so handlers can simply return on failure
func GetUserFromRequest(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(userContextKey)
	if !exists {
		response.Error(c, http.StatusUnauthorized, "Not authenticated")
		c.Abort()
		return nil, errors.New("no authenticated user in context")
	}
	return value.(*models.User), nil
}

// GetActorFromRequest returns the authenticated identity with its role claim
func GetActorFromRequest(c *gin.Context) (permissions.Actor, error) {
	user, err := GetUserFromRequest(c)
	if err != nil {
		return permissions.Actor{}, err
	}
	role, exists := c.Get(roleContextKey)
	if !exists {
		response.Error(c, http.StatusInternalServerError, "Failed to resolve role")
		c.Abort()
		return permissions.Actor{}, errors.New("no role claim in context")
	}
	return permissions.Actor{UserID: user.ID, Role: role.(models.AppRole)}, nil
}
