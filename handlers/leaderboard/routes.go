package leaderboard

import (
	"seenaf/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to the leaderboard
// r: the RouterGroup to which routes are added
func RegisterRoutes(r *gin.RouterGroup) {

	leaderboard := r.Group("/leaderboard")
	leaderboard.Use(middleware.AuthMiddleware())
	{
		leaderboard.GET("/", GetLeaderboard)
		leaderboard.GET("/feed", SolveFeed)
		leaderboard.GET("/export", middleware.AdminMiddleware(), ExportLeaderboard)
	}
}
