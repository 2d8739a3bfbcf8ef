package store

import (
	"fmt"
	"time"
)

// CreateWatch persists a new watch request.
func (s *Store) CreateWatch(w WatchRecord) error {
	if err := s.db.Create(&w).Error; err != nil {
		return fmt.Errorf("failed to create watch: %w", err)
	}
	return nil
}

// ActiveWatches snapshots every currently active watch, for one evaluator
// tick. Ticks are sequential, so no locking beyond the row read is needed.
func (s *Store) ActiveWatches() ([]WatchRecord, error) {
	var watches []WatchRecord
	if err := s.db.Where("active = ?", true).Find(&watches).Error; err != nil {
		return nil, fmt.Errorf("failed to load active watches: %w", err)
	}
	return watches, nil
}

// GetWatch loads a single watch by ID.
func (s *Store) GetWatch(watchID string) (*WatchRecord, error) {
	var w WatchRecord
	if err := s.db.Where("watch_id = ?", watchID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// CancelWatch deactivates a watch without recording a trigger time.
func (s *Store) CancelWatch(watchID string) error {
	return s.db.Model(&WatchRecord{}).Where("watch_id = ?", watchID).Update("active", false).Error
}

// DeactivateTriggered marks every watch in watchIDs inactive and stamps
// LastTriggeredAt, as a single atomic batch write.
func (s *Store) DeactivateTriggered(watchIDs []string, triggeredAt time.Time) error {
	if len(watchIDs) == 0 {
		return nil
	}
	return s.db.Model(&WatchRecord{}).
		Where("watch_id IN ?", watchIDs).
		Updates(map[string]interface{}{
			"active":            false,
			"last_triggered_at": triggeredAt,
		}).Error
}
