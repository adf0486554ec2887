package challenges

import (
	"seenaf/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to challenges
// r: the RouterGroup to which routes are added
func RegisterRoutes(r *gin.RouterGroup) {

	challenges := r.Group("/challenges")
	challenges.Use(middleware.AuthMiddleware())
	{
		challenges.GET("/", GetChallenges)
		challenges.GET("/:id", GetChallenge)
		challenges.GET("/:id/stats", GetChallengeStatistics)
		challenges.GET("/:id/solvers", GetChallengeSolvers)
		challenges.POST("/:id/submit", SubmitFlag)

		admin := challenges.Group("/")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/", CreateChallenge)
			admin.PUT("/:id", UpdateChallenge)
			admin.PUT("/:id/active", SetChallengeActive)
			admin.DELETE("/:id", DeleteChallenge)
		}
	}
}
