package routes

import (
	"problemscout-be/controllers"
	"problemscout-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ProfileRoutes sets up the profile routes
func ProfileRoutes(r *gin.Engine, pc *controllers.ProfileController) {
	profile := r.Group("/api/profile")
	{
		profile.GET("/me", middlewares.AuthMiddleware(), pc.GetMyProfile)
	}
}
