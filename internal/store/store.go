// Package store is the durable system of record: bundles, cached_deals,
// watch_requests, and user_preferences, plus the available_flights and
// available_hotel_rooms operational-inventory tables, backed by Postgres via gorm,
// following the connection/pool setup distribution_service's
// src/database/connection.go uses.
package store

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the gorm handle and exposes the four concierge tables and the
// two operational-inventory tables.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres at dsn, configures the connection pool, and
// runs AutoMigrate for the concierge schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db}
	if err := s.autoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) autoMigrate() error {
	return s.db.AutoMigrate(
		&BundleRecord{},
		&CachedDeal{},
		&WatchRecord{},
		&UserPreference{},
		&AvailableFlight{},
		&AvailableHotelRoom{},
	)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// DB exposes the underlying gorm handle for packages that compose
// queries beyond this package's helpers.
func (s *Store) DB() *gorm.DB {
	return s.db
}
