package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/flockwood/Offside-Tool/internal/models"
)

func AutoMigrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Player{},
		&models.WatchlistEntry{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", table, err)
		}
	}

	// AutoMigrate cannot express a functional index. The case-insensitive
	// name uniqueness is enforced here as the storage backstop behind the
	// repository's pre-check.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_players_name_ci ON players (LOWER(first_name), LOWER(last_name))",
	).Error; err != nil {
		return fmt.Errorf("failed to create name index: %w", err)
	}

	log.Println("✅ Database migration completed")
	return nil
}
