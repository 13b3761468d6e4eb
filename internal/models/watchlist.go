package models

import (
	"time"
)

// WatchlistEntry is the join table behind the user/player watchlist.
// The composite unique index makes concurrent adds safe to race.
type WatchlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_player;index" json:"user_id"`
	PlayerID  uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_player;index" json:"player_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Player Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}
