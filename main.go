package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"problemscout-be/config"
	"problemscout-be/controllers"
	"problemscout-be/models"
	"problemscout-be/routes"
	"problemscout-be/services"
	"problemscout-be/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	if err := models.EnsureVoteIndex(db.Collection("votes")); err != nil {
		log.Println("Failed to ensure vote index:", err)
	}

	users := store.NewMongoUserStore(db)
	profiles := store.NewMongoProfileStore(db)
	problems := store.NewMongoProblemStore(db)
	votes := store.NewMongoVoteStore(db)

	profileService := services.NewProfileService(users, profiles)
	authService := services.NewAuthService(users, profileService,
		os.Getenv("REQUIRE_EMAIL_CONFIRMATION") == "true")
	problemService := services.NewProblemService(problems, votes)

	r := gin.Default()

	frontendOrigin := os.Getenv("FRONTEND_ORIGIN")
	if frontendOrigin == "" {
		frontendOrigin = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.AuthRoutes(r, controllers.NewAuthController(authService, users))
	routes.ProfileRoutes(r, controllers.NewProfileController(profileService))
	routes.ProblemRoutes(r, controllers.NewProblemController(problemService))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
