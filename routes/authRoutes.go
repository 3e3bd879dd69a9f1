package routes

import (
	"problemscout-be/controllers"
	"problemscout-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
		auth.POST("/logout", ac.Logout)
		auth.GET("/callback", ac.Callback)
		auth.GET("/me", middlewares.AuthMiddleware(), ac.GetMe)
	}
}
