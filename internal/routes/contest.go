package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-contest-gateway/internal/handlers"
	"github.com/pushp314/devconnect-contest-gateway/internal/middleware"
)

func RegisterContestRoutes(r gin.IRouter) {
	contests := r.Group("/contests")
	{
		// Public (Optional Auth for registration status / solved flags)
		contests.GET("", middleware.OptionalAuthMiddleware(), handlers.ListContests)
		contests.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetContest)
		contests.GET("/:id/leaderboard", middleware.OptionalAuthMiddleware(), handlers.GetContestLeaderboard)

		// Protected
		protected := contests.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/:id/register", middleware.RegisterRateLimit(), handlers.RegisterForContest)
		}
	}
}
