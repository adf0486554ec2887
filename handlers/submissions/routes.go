package submissions

import (
	"seenaf/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to the submission ledger
// r: the RouterGroup to which routes are added
func RegisterRoutes(r *gin.RouterGroup) {

	submissions := r.Group("/submissions")
	submissions.Use(middleware.AuthMiddleware())
	{
		submissions.GET("/me", GetMySubmissions)
		submissions.GET("/user/:user_id", GetUserSubmissions)

		admin := submissions.Group("/")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/challenge/:challenge_id", GetChallengeSubmissions)
			admin.GET("/audit", GetAuditTrail)
			admin.DELETE("/:id", RevokeSubmission)
		}
	}
}
