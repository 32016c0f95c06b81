package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitLocalStore opens the on-disk sqlite state store and migrates its
// schema. The store holds only client-local state (the resumable session
// blob); all club data stays authoritative on the backend.
func InitLocalStore(path string) (*gorm.DB, error) {
	store, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := store.AutoMigrate(&SavedSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return store, nil
}
