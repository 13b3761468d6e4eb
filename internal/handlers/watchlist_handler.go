package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flockwood/Offside-Tool/internal/repository"
)

type WatchlistHandler struct {
	watchlistRepo repository.WatchlistRepository
	playerRepo    repository.PlayerRepository
}

func NewWatchlistHandler(watchlistRepo repository.WatchlistRepository, playerRepo repository.PlayerRepository) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistRepo: watchlistRepo,
		playerRepo:    playerRepo,
	}
}

// AddToWatchlist handles POST /watchlist/:player_id. Adding an already
// watched player is a no-op success.
func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	user := currentUser(c)
	playerIDValue, ok := playerID(c, "player_id")
	if !ok {
		return
	}

	player, err := h.playerRepo.GetByID(playerIDValue)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			playerNotFound(c, playerIDValue)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch player"})
		return
	}

	if err := h.watchlistRepo.Add(user.ID, player.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to add player to watchlist",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Player '" + player.FullName + "' added to watchlist",
		"player_id":   player.ID,
		"player_name": player.FullName,
	})
}

// RemoveFromWatchlist handles DELETE /watchlist/:player_id. Removing an
// absent entry is a no-op success.
func (h *WatchlistHandler) RemoveFromWatchlist(c *gin.Context) {
	user := currentUser(c)
	playerIDValue, ok := playerID(c, "player_id")
	if !ok {
		return
	}

	player, err := h.playerRepo.GetByID(playerIDValue)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			playerNotFound(c, playerIDValue)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch player"})
		return
	}

	if err := h.watchlistRepo.Remove(user.ID, player.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to remove player from watchlist",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Player '" + player.FullName + "' removed from watchlist",
		"player_id":   player.ID,
		"player_name": player.FullName,
	})
}

// GetWatchlist handles GET /watchlist/.
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	user := currentUser(c)

	players, err := h.watchlistRepo.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch watchlist",
		})
		return
	}

	c.JSON(http.StatusOK, players)
}
