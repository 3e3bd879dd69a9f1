package controllers

import (
	"log"
	"net/http"

	"problemscout-be/services"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profiles services.ProfileService
}

func NewProfileController(profiles services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// GetMyProfile fetches the caller's profile, creating it if this is
// their first sign-in. Each call hits the store; there is no caching
// short-circuit, so it doubles as the refresh operation.
func (pc *ProfileController) GetMyProfile(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	profile, err := pc.profiles.EnsureProfile(ctx, userID)
	if err != nil {
		log.Println("Error ensuring profile:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an issue setting up your profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
