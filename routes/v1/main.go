package v1

import (
	"seenaf/handlers/auth"
	"seenaf/handlers/challenges"
	"seenaf/handlers/leaderboard"
	"seenaf/handlers/submissions"
	"seenaf/handlers/users"
	"seenaf/middleware"

	"github.com/gin-gonic/gin"
)

// Register the endpoints for the v1 API
func Register(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Add metrics middleware to all routes
	v1.Use(middleware.MetricsMiddleware())

	rateLimiter := middleware.NewRateLimiter(10000, 1500) // 100 requests per second, 150 burst
	v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

	RegisterPingRoutes(v1)
	RegisterSupportRoutes(v1)
	auth.RegisterRoutes(v1)
	challenges.RegisterRoutes(v1)
	submissions.RegisterRoutes(v1)
	leaderboard.RegisterRoutes(v1)
	users.RegisterRoutes(v1)

	// Register metrics endpoint
	RegisterMetricsRoutes(v1)
}
