package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flockwood/Offside-Tool/internal/config"
	"github.com/flockwood/Offside-Tool/internal/repository"
	"github.com/flockwood/Offside-Tool/internal/security"
)

const (
	ContextUserKey   = "current_user"
	ContextUserIDKey = "user_id"
)

// JWTMiddleware resolves a bearer token to an active user. Every failure on
// the token path answers with the same generic 401; an inactive account is
// the one distinct case (400) since the identity was proven.
func JWTMiddleware(cfg *config.Config, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := security.ParseAccessToken(tokenString, cfg.JWTSecret)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := userRepo.FindUserByEmail(claims.Subject)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to resolve user",
			})
			c.Abort()
			return
		}
		if user == nil {
			abortUnauthorized(c)
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Inactive user",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": "Could not validate credentials",
	})
	c.Abort()
}
