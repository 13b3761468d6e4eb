package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flockwood/Offside-Tool/internal/config"
	"github.com/flockwood/Offside-Tool/internal/middleware"
	"github.com/flockwood/Offside-Tool/internal/models"
	"github.com/flockwood/Offside-Tool/internal/repository"
	"github.com/flockwood/Offside-Tool/internal/security"
)

type AuthHandler struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthHandler(userRepo repository.UserRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		config:   cfg,
	}
}

// Register handles POST /users/ (public).
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	existing, err := h.userRepo.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
		})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "User with email '" + req.Email + "' already exists",
		})
		return
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to process password",
		})
		return
	}

	user := &models.User{
		Email:          req.Email,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}

	if err := h.userRepo.CreateUser(user); err != nil {
		if err == repository.ErrEmailTaken {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "User with email '" + req.Email + "' already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create user",
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /login/token. It accepts an OAuth2-style form where
// username carries the email. Wrong password and unknown email answer
// identically to avoid user enumeration.
func (h *AuthHandler) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "username and password are required",
		})
		return
	}

	user, err := h.userRepo.FindUserByEmail(form.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
		})
		return
	}
	if user == nil || security.VerifyPassword(user.HashedPassword, form.Password) != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Incorrect email or password",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Inactive user",
		})
		return
	}

	accessToken, err := security.CreateAccessToken(user.Email, h.config.JWTSecret, h.config.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, models.Token{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// Me handles GET /users/me (authenticated).
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Could not validate credentials",
		})
		return
	}
	c.JSON(http.StatusOK, user)
}

func currentUser(c *gin.Context) *models.User {
	raw, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := raw.(*models.User)
	if !ok {
		return nil
	}
	return user
}
