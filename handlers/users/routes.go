package users

import (
	"seenaf/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to users
// r: the RouterGroup to which routes are added
func RegisterRoutes(r *gin.RouterGroup) {

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", GetProfile)
		users.PUT("/me", UpdateProfile)
		users.PUT("/me/password", ChangePassword)
		users.GET("/me/solved", GetSolvedChallenges)

		admin := users.Group("/")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/", GetUsers)
			admin.PUT("/:id/role", SetRole)
			admin.PUT("/:id/blocked", SetBlocked)
			admin.PUT("/:id/score", OverrideScore)
			admin.POST("/:id/recompute", RecomputeScore)
			admin.DELETE("/:id", DeleteUser)
		}
	}
}
