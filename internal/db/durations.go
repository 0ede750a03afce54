package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stationd/internal/models"
)

// DurationStore persists probed media durations keyed by file path
type DurationStore struct {
	db *DB
}

// NewDurationStore creates a duration store backed by the given database
func NewDurationStore(database *DB) *DurationStore {
	return &DurationStore{db: database}
}

// Get returns the cached duration for path, reporting whether one exists
func (s *DurationStore) Get(ctx context.Context, path string) (float64, bool, error) {
	var record models.MediaDuration
	err := s.db.WithContext(ctx).First(&record, "path = ?", path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read cached duration: %w", err)
	}
	return record.DurationSeconds, true, nil
}

// Put stores or replaces the cached duration for path
func (s *DurationStore) Put(ctx context.Context, path string, durationSeconds float64) error {
	record := models.MediaDuration{
		Path:            path,
		DurationSeconds: durationSeconds,
		ProbedAt:        time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to store cached duration: %w", err)
	}
	return nil
}
