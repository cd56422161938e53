package repositories

import (
	"errors"
	"fmt"

	"chiyasathi/internal/models"

	"gorm.io/gorm"
)

// GORMStateRepository is a GORM implementation of StateRepository.
type GORMStateRepository struct {
	db *gorm.DB
}

// NewGORMStateRepository creates a new instance of GORMStateRepository.
// The client_state table must already be migrated.
func NewGORMStateRepository(db *gorm.DB) *GORMStateRepository {
	return &GORMStateRepository{
		db: db,
	}
}

// Get retrieves a value by key.
func (r *GORMStateRepository) Get(key string) (string, bool, error) {
	var entry models.StateEntry
	if err := r.db.First(&entry, "name = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get state %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set inserts or overwrites a value.
func (r *GORMStateRepository) Set(key, value string) error {
	entry := models.StateEntry{Name: key, Value: value}
	if err := r.db.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys in one statement.
func (r *GORMStateRepository) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.db.Where("name IN ?", keys).Delete(&models.StateEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete state %v: %w", keys, err)
	}
	return nil
}
