package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"problemscout-be/models"
	"problemscout-be/services"
	"problemscout-be/store"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	problems services.ProblemService
}

func NewProblemController(problems services.ProblemService) *ProblemController {
	return &ProblemController{problems: problems}
}

type locationInput struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address *string `json:"address,omitempty"`
}

// ReportProblem handles a new problem report from the map form
func (pc *ProblemController) ReportProblem(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to report a problem"})
		return
	}

	var input struct {
		Title       string         `json:"title" binding:"required,min=5,max=200"`
		Description string         `json:"description" binding:"required,min=10,max=1000"`
		Category    string         `json:"category" binding:"required,oneof=roads utilities environment safety facilities other"`
		Location    *locationInput `json:"location,omitempty"`
		ImageURL    *string        `json:"imageUrl,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reportInput := services.ReportProblemInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.ProblemCategory(input.Category),
		ImageURL:    input.ImageURL,
	}
	if input.Location != nil {
		reportInput.Location = &models.ProblemLocation{
			Lat:     input.Location.Lat,
			Lng:     input.Location.Lng,
			Address: input.Location.Address,
		}
	}

	ctx, cancel := requestContext()
	defer cancel()

	problem, err := pc.problems.Report(ctx, userID, reportInput)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to report a problem"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to report problem",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Problem reported successfully",
		"problem": problem,
	})
}

// ListProblems retrieves problems with filtering, pagination, and the
// caller's vote state
func (pc *ProblemController) ListProblems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := store.ProblemFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", "newest"),
		Page:     page,
		Limit:    limit,
	}

	userID := ""
	if userIDVal, exists := c.Get("user_id"); exists {
		userID, _ = userIDVal.(string)
	}

	ctx, cancel := requestContext()
	defer cancel()

	pageResult, err := pc.problems.List(ctx, filter, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve problems"})
		return
	}

	c.JSON(http.StatusOK, pageResult)
}

// GetProblem retrieves a problem by its ID with vote information
func (pc *ProblemController) GetProblem(c *gin.Context) {
	id := c.Param("id")

	userID := ""
	if userIDVal, exists := c.Get("user_id"); exists {
		userID, _ = userIDVal.(string)
	}

	ctx, cancel := requestContext()
	defer cancel()

	problem, err := pc.problems.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve problem"})
		return
	}

	c.JSON(http.StatusOK, problem)
}

// MyProblems retrieves the problems reported by the authenticated user
func (pc *ProblemController) MyProblems(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	problems, err := pc.problems.ListMine(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve problems"})
		return
	}

	c.JSON(http.StatusOK, problems)
}

// RecentProblems returns the newest problems carrying a real map
// position, shaped for map pins
func (pc *ProblemController) RecentProblems(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	pins, err := pc.problems.RecentPins(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent problems"})
		return
	}

	c.JSON(http.StatusOK, pins)
}

// VoteOnProblem toggles the user's upvote on a problem
func (pc *ProblemController) VoteOnProblem(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id := c.Param("id")

	ctx, cancel := requestContext()
	defer cancel()

	result, err := pc.problems.ToggleVote(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote"})
		return
	}

	message := "Vote cast successfully"
	if !result.Voted {
		message = "Vote removed successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"voted":        result.Voted,
		"upvotes":      result.Upvotes,
		"userHasVoted": result.Voted,
	})
}

// GetProblemAnalytics returns dashboard stats about reported problems
func (pc *ProblemController) GetProblemAnalytics(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	report, err := pc.problems.Analytics(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analytics"})
		return
	}

	c.JSON(http.StatusOK, report)
}
