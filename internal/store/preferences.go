package store

import (
	"time"

	"gorm.io/gorm/clause"
)

// SavePreferences upserts a user's remembered bundle preferences.
func (s *Store) SavePreferences(userID, preferencesJSON string) error {
	rec := UserPreference{UserID: userID, Preferences: preferencesJSON, UpdatedAt: time.Now().UTC()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preferences", "updated_at"}),
	}).Create(&rec).Error
}

// GetPreferences loads a user's remembered preferences, if any.
func (s *Store) GetPreferences(userID string) (*UserPreference, error) {
	var rec UserPreference
	if err := s.db.Where("user_id = ?", userID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
