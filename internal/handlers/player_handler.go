package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flockwood/Offside-Tool/internal/config"
	"github.com/flockwood/Offside-Tool/internal/models"
	"github.com/flockwood/Offside-Tool/internal/repository"
	"github.com/flockwood/Offside-Tool/internal/services"
)

type PlayerHandler struct {
	playerRepo repository.PlayerRepository
	config     *config.Config
}

func NewPlayerHandler(playerRepo repository.PlayerRepository, cfg *config.Config) *PlayerHandler {
	return &PlayerHandler{
		playerRepo: playerRepo,
		config:     cfg,
	}
}

// CreatePlayer handles POST /players.
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.PlayerCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	player, err := req.ToPlayer()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	if err := h.playerRepo.Create(player); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Player with name '%s %s' already exists", player.FirstName, player.LastName),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create player",
		})
		return
	}

	c.JSON(http.StatusCreated, player)
}

// GetPlayers handles GET /players with filters and pagination.
func (h *PlayerHandler) GetPlayers(c *gin.Context) {
	skip, limit, ok := h.pagination(c)
	if !ok {
		return
	}

	filter := models.PlayerFilter{
		Position:    c.Query("position"),
		Nationality: c.Query("nationality"),
		CurrentClub: c.Query("current_club"),
		Search:      c.Query("search"),
	}
	if filter.Position != "" && !validPosition(filter.Position) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid position",
		})
		return
	}
	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil || minRating < 0 || minRating > 10 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  "error",
				"message": "min_rating must be a number between 0 and 10",
			})
			return
		}
		filter.MinRating = &minRating
	}

	players, total, err := h.playerRepo.List(filter, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch players",
		})
		return
	}

	c.JSON(http.StatusOK, models.NewPlayerList(players, total, skip, limit))
}

// GetPlayer handles GET /players/:id.
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := playerID(c, "id")
	if !ok {
		return
	}

	player, err := h.playerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			playerNotFound(c, id)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch player",
		})
		return
	}

	c.JSON(http.StatusOK, player)
}

// UpdatePlayer handles PUT /players/:id with partial semantics.
func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	id, ok := playerID(c, "id")
	if !ok {
		return
	}

	var req models.PlayerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	player, err := h.playerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			playerNotFound(c, id)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch player",
		})
		return
	}

	// a name change re-validates the uniqueness invariant against every
	// other record
	if req.FirstName != nil || req.LastName != nil {
		newFirst := player.FirstName
		newLast := player.LastName
		if req.FirstName != nil {
			newFirst = *req.FirstName
		}
		if req.LastName != nil {
			newLast = *req.LastName
		}

		existing, err := h.playerRepo.GetByName(newFirst, newLast)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to validate player name",
			})
			return
		}
		if existing != nil && existing.ID != id {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Player with name '%s %s' already exists", newFirst, newLast),
			})
			return
		}
	}

	if err := req.Apply(player); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	if err := h.playerRepo.Update(player); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Player with name '%s %s' already exists", player.FirstName, player.LastName),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update player",
		})
		return
	}

	c.JSON(http.StatusOK, player)
}

// DeletePlayer handles DELETE /players/:id.
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	id, ok := playerID(c, "id")
	if !ok {
		return
	}

	if _, err := h.playerRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			playerNotFound(c, id)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete player",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchPlayers handles GET /players/search (authenticated).
func (h *PlayerHandler) SearchPlayers(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Search name is required",
		})
		return
	}

	players, err := h.playerRepo.SearchByName(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to search players",
		})
		return
	}

	c.JSON(http.StatusOK, players)
}

// AdvancedSearch handles POST /players/search/advanced (authenticated).
func (h *PlayerHandler) AdvancedSearch(c *gin.Context) {
	var params models.AdvancedSearch
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	players, err := h.playerRepo.AdvancedSearch(params)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidAgeBounds) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  "error",
				"message": "max_age cannot be less than min_age",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to search players",
		})
		return
	}

	c.JSON(http.StatusOK, players)
}

// ComparePlayers handles GET /players/compare (authenticated). Equal ids are
// a usage error rejected before any lookup.
func (h *PlayerHandler) ComparePlayers(c *gin.Context) {
	id1, ok := queryPlayerID(c, "player_id_1")
	if !ok {
		return
	}
	id2, ok := queryPlayerID(c, "player_id_2")
	if !ok {
		return
	}

	if id1 == id2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Cannot compare a player with itself. Please provide two different player IDs.",
		})
		return
	}

	player1, err := h.playerRepo.GetByID(id1)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			playerNotFound(c, id1)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch player"})
		return
	}

	player2, err := h.playerRepo.GetByID(id2)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			playerNotFound(c, id2)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch player"})
		return
	}

	c.JSON(http.StatusOK, services.ComparePlayers(player1, player2))
}

// GetPlayersByClub handles GET /players/club/:club_name, ordered by jersey
// number.
func (h *PlayerHandler) GetPlayersByClub(c *gin.Context) {
	clubName := c.Param("club_name")

	skip, limit, ok := h.pagination(c)
	if !ok {
		return
	}

	players, total, err := h.playerRepo.GetByClub(clubName, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch players",
		})
		return
	}

	c.JSON(http.StatusOK, models.NewPlayerList(players, total, skip, limit))
}

// GetTopScorers handles GET /players/top/scorers.
func (h *PlayerHandler) GetTopScorers(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	position := c.Query("position")
	if position != "" && !validPosition(position) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid position",
		})
		return
	}

	players, err := h.playerRepo.GetTopScorers(limit, position)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch top scorers",
		})
		return
	}

	c.JSON(http.StatusOK, players)
}

// GetStatistics handles GET /players/stats/overview.
func (h *PlayerHandler) GetStatistics(c *gin.Context) {
	stats, err := h.playerRepo.GetStatistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch statistics",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *PlayerHandler) pagination(c *gin.Context) (skip, limit int, ok bool) {
	var err error
	skip, err = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "skip must be a non-negative integer",
		})
		return 0, 0, false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.config.DefaultPageSize)))
	if err != nil || limit < 1 || limit > h.config.MaxPageSize {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("limit must be between 1 and %d", h.config.MaxPageSize),
		})
		return 0, 0, false
	}

	return skip, limit, true
}

func playerID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Invalid player ID",
		})
		return 0, false
	}
	return uint(id), true
}

func queryPlayerID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": key + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func playerNotFound(c *gin.Context, id uint) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":  "error",
		"message": fmt.Sprintf("Player with ID %d not found", id),
	})
}

func validPosition(position string) bool {
	for _, p := range models.AllPositions() {
		if p == position {
			return true
		}
	}
	return false
}
