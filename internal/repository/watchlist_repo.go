package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flockwood/Offside-Tool/internal/models"
)

type WatchlistRepository interface {
	Add(userID, playerID uint) error
	Remove(userID, playerID uint) error
	List(userID uint) ([]models.Player, error)
	Contains(userID, playerID uint) (bool, error)
}

type watchlistRepo struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepo{db: db}
}

// Add is idempotent: the composite unique index plus ON CONFLICT DO NOTHING
// absorbs duplicate and concurrent inserts.
func (r *watchlistRepo) Add(userID, playerID uint) error {
	entry := models.WatchlistEntry{
		UserID:   userID,
		PlayerID: playerID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}

// Remove is idempotent: deleting an absent pair is a no-op.
func (r *watchlistRepo) Remove(userID, playerID uint) error {
	return r.db.
		Where("user_id = ? AND player_id = ?", userID, playerID).
		Delete(&models.WatchlistEntry{}).Error
}

func (r *watchlistRepo) List(userID uint) ([]models.Player, error) {
	var players []models.Player
	err := r.db.Model(&models.Player{}).
		Joins("JOIN watchlist_entries ON watchlist_entries.player_id = players.id").
		Where("watchlist_entries.user_id = ?", userID).
		Order("watchlist_entries.id").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return derived(players), nil
}

func (r *watchlistRepo) Contains(userID, playerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WatchlistEntry{}).
		Where("user_id = ? AND player_id = ?", userID, playerID).
		Count(&count).Error
	return count > 0, err
}
