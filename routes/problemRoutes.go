package routes

import (
	"os"
	"strconv"

	"problemscout-be/controllers"
	"problemscout-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ProblemRoutes sets up the problem routes
func ProblemRoutes(r *gin.Engine, pc *controllers.ProblemController) {
	dailyLimit := 10
	if v := os.Getenv("REPORT_DAILY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dailyLimit = n
		}
	}

	problem := r.Group("/api/problem")
	{
		problem.GET("", middlewares.OptionalAuth(), pc.ListProblems)
		problem.GET("/recent", pc.RecentProblems)
		problem.GET("/analytics", pc.GetProblemAnalytics)
		problem.GET("/mine", middlewares.AuthMiddleware(), pc.MyProblems)
		problem.POST("/report",
			middlewares.AuthMiddleware(),
			middlewares.ReportRateLimiter(dailyLimit),
			pc.ReportProblem)
		problem.GET("/:id", middlewares.OptionalAuth(), pc.GetProblem)
		problem.POST("/:id/vote", middlewares.AuthMiddleware(), pc.VoteOnProblem)
	}
}
