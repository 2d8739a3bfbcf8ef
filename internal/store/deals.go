package store

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

// UpsertDeal inserts or updates a CachedDeal keyed by DealID, overwriting
// all mutable fields and refreshing UpdatedAt — last-writer-wins.
func (s *Store) UpsertDeal(d CachedDeal) error {
	d.UpdatedAt = time.Now().UTC()
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "deal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type", "destination", "summary", "price_original", "price_deal",
			"discount_percent", "score", "tags", "inventory", "valid_until",
			"route", "raw_payload", "updated_at",
		}),
	}).Create(&d).Error
	if err != nil {
		return fmt.Errorf("failed to upsert deal: %w", err)
	}
	return nil
}

// TopDeals returns the limit highest-score, unexpired deals, optionally
// filtered to destination, tie-broken by UpdatedAt desc.
func (s *Store) TopDeals(destination string, limit int, now time.Time) ([]CachedDeal, error) {
	q := s.db.Where("valid_until > ?", now)
	if destination != "" {
		q = q.Where("destination = ?", destination)
	}
	var deals []CachedDeal
	err := q.Order("score DESC, updated_at DESC").Limit(limit).Find(&deals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top deals: %w", err)
	}
	return deals, nil
}

// JoinTags joins a tag slice for storage.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags splits a stored tag string back into a slice.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
