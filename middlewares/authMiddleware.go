package middlewares

import (
	"log"
	"net/http"
	"strings"
	"time"

	"problemscout-be/config"
	authUtils "problemscout-be/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const revokedKeyPrefix = "revoked:"

// tokenFromRequest extracts the session token from the Authorization
// header, falling back to the auth cookie the login handler sets.
func tokenFromRequest(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return authHeader[7:]
		}
		return authHeader
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		claims, err := authUtils.ParseToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		if IsRevoked(tokenString) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has been signed out"})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth sets user_id when a valid token is present but never
// rejects the request. Read endpoints use it to mark the caller's
// votes.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString != "" && !IsRevoked(tokenString) {
			if claims, err := authUtils.ParseToken(tokenString); err == nil {
				if userID, ok := claims["user_id"].(string); ok && userID != "" {
					c.Set("user_id", userID)
				}
			}
		}
		c.Next()
	}
}

// RevokeToken marks a session token as signed out until it would have
// expired on its own.
func RevokeToken(tokenString string, claims jwt.MapClaims) error {
	if config.RedisClient == nil {
		return nil
	}

	ttl := 72 * time.Hour
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	return config.RedisClient.Set(config.Ctx, revokedKeyPrefix+tokenString, "1", ttl).Err()
}

// IsRevoked reports whether a token was signed out server-side.
func IsRevoked(tokenString string) bool {
	if config.RedisClient == nil {
		return false
	}
	count, err := config.RedisClient.Exists(config.Ctx, revokedKeyPrefix+tokenString).Result()
	return err == nil && count > 0
}
