package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// SaveBundle inserts a BundleRecord for one generated bundle.
func (s *Store) SaveBundle(rec BundleRecord) error {
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to persist bundle: %w", err)
	}
	return nil
}

// BundlesForUser returns up to limit bundles for userID, most recent first.
func (s *Store) BundlesForUser(userID string, limit int) ([]BundleRecord, error) {
	var recs []BundleRecord
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query bundles for user: %w", err)
	}
	return recs, nil
}

// EncodeComponents JSON-encodes a bundle's components for storage.
func EncodeComponents(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeComponents JSON-decodes a stored components blob into dst.
func DecodeComponents(raw string, dst interface{}) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

// PruneExpiredBundles deletes bundle records whose ValidUntil has passed.
// Not on the hot read path; intended for an operator/maintenance job.
func (s *Store) PruneExpiredBundles(now time.Time) error {
	return s.db.Where("valid_until < ?", now).Delete(&BundleRecord{}).Error
}
