package routes

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/flockwood/Offside-Tool/internal/config"
	"github.com/flockwood/Offside-Tool/internal/handlers"
	"github.com/flockwood/Offside-Tool/internal/middleware"
	"github.com/flockwood/Offside-Tool/internal/repository"
)

func SetupRoutes(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	watchlistHandler *handlers.WatchlistHandler,
	userRepo repository.UserRepository,
) *gin.Engine {

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(corsConfig(cfg)))

	router.Use(func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	requireAuth := middleware.JWTMiddleware(cfg, userRepo)

	api := router.Group("/api/v1")
	{
		api.POST("/login/token", authHandler.Login)

		users := api.Group("/users")
		{
			users.POST("/", authHandler.Register)

			usersProtected := users.Group("/")
			usersProtected.Use(requireAuth)
			{
				usersProtected.GET("/me", authHandler.Me)
			}
		}

		players := api.Group("/players")
		{
			players.POST("", playerHandler.CreatePlayer)
			players.GET("", playerHandler.GetPlayers)
			players.GET("/top/scorers", playerHandler.GetTopScorers)
			players.GET("/stats/overview", playerHandler.GetStatistics)
			players.GET("/club/:club_name", playerHandler.GetPlayersByClub)
			players.GET("/:id", playerHandler.GetPlayer)
			players.PUT("/:id", playerHandler.UpdatePlayer)
			players.DELETE("/:id", playerHandler.DeletePlayer)

			playersProtected := players.Group("/")
			playersProtected.Use(requireAuth)
			{
				playersProtected.GET("/search", playerHandler.SearchPlayers)
				playersProtected.POST("/search/advanced", playerHandler.AdvancedSearch)
				playersProtected.GET("/compare", playerHandler.ComparePlayers)
			}
		}

		watchlist := api.Group("/watchlist")
		watchlist.Use(requireAuth)
		{
			watchlist.POST("/:player_id", watchlistHandler.AddToWatchlist)
			watchlist.GET("/", watchlistHandler.GetWatchlist)
			watchlist.DELETE("/:player_id", watchlistHandler.RemoveFromWatchlist)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Server is running",
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Offside Tool API",
			"version": "0.1.0",
		})
	})

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	frontendURL := os.Getenv("CORS_ORIGIN")

	if cfg.Environment == "production" {
		if frontendURL == "" {
			log.Fatal("❌ CORS_ORIGIN environment variable is NOT set in production!")
		}
		corsCfg.AllowOrigins = []string{frontendURL}
		return corsCfg
	}

	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	corsCfg.AllowOriginFunc = func(origin string) bool {
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.")
	}

	return corsCfg
}
