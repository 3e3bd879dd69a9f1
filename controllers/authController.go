package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"problemscout-be/middlewares"
	"problemscout-be/services"
	"problemscout-be/store"
	authUtils "problemscout-be/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth  services.AuthService
	users store.UserStore
}

func NewAuthController(auth services.AuthService, users store.UserStore) *AuthController {
	return &AuthController{auth: auth, users: users}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// setAuthCookie attaches the session token the way the frontend
// expects it: HttpOnly, cross-origin-capable in production.
func setAuthCookie(c *gin.Context, token string) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	// For production, don't set domain to allow cross-origin cookies
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		MaxAge:   3600, // 1 hour
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(c.Writer, cookie)
}

// Register handles user sign-up. Depending on configuration the user
// either gets a session immediately or is asked to confirm by email.
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	session, confirmationRequired, err := ac.auth.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
			return
		}
		log.Println("Error registering user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	if confirmationRequired {
		c.JSON(http.StatusCreated, gin.H{
			"message": "Please check your email to confirm your registration.",
		})
		return
	}

	setAuthCookie(c, session.Token)
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Welcome to ProblemScout! You can now start reporting problems.",
		"id":        session.User.ID,
		"name":      session.User.Name,
		"email":     session.User.Email,
		"createdAt": session.User.CreatedAt,
		"profile":   session.Profile,
	})
}

// Login handles user sign-in
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	session, err := ac.auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, services.ErrNotConfirmed):
			c.JSON(http.StatusForbidden, gin.H{"error": "Please confirm your email before signing in"})
		default:
			log.Println("Error logging in:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}

	setAuthCookie(c, session.Token)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Welcome back to ProblemScout!",
		"id":        session.User.ID,
		"name":      session.User.Name,
		"email":     session.User.Email,
		"createdAt": session.User.CreatedAt,
		"profile":   session.Profile,
	})
}

// Callback is the email-confirmation landing: it validates the link,
// marks the user confirmed and establishes a session.
func (ac *AuthController) Callback(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing confirmation token"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	session, err := ac.auth.ConfirmEmail(ctx, token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidConfirmLink) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired confirmation link"})
			return
		}
		log.Println("Error confirming email:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	setAuthCookie(c, session.Token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Email confirmed. Welcome to ProblemScout!",
		"id":      session.User.ID,
		"name":    session.User.Name,
		"email":   session.User.Email,
		"profile": session.Profile,
	})
}

// GetMe retrieves the authenticated user's information
func (ac *AuthController) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := ac.users.GetUserByID(ctx, userID.(string))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	})
}

// Logout signs the user out: the presented token is revoked
// server-side and the auth cookie is cleared.
func (ac *AuthController) Logout(c *gin.Context) {
	authHeader := c.Request.Header.Get("Authorization")
	tokenString := authHeader
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenString = authHeader[7:]
	}
	if tokenString == "" {
		if cookie, err := c.Cookie("auth_token"); err == nil {
			tokenString = cookie
		}
	}

	if tokenString != "" {
		if claims, err := authUtils.ParseToken(tokenString); err == nil {
			if err := middlewares.RevokeToken(tokenString, claims); err != nil {
				log.Println("Error revoking token:", err)
			}
		}
	}

	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	c.SetCookie("auth_token", "", -1, "/", domain, environment == "production", true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out successfully",
	})
}
