package setup

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// MigrateDB creates or updates the schema for all persisted models.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}
	err := db.AutoMigrate(
		&domain.Deck{},
		&domain.Card{},
		&domain.Room{},
		&domain.Event{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}
	return nil
}
