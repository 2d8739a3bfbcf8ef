package store

import (
	"fmt"
	"math/rand"
	"time"
)

// AvailableFlight is one row of operational flight inventory the ingestion
// pipeline samples from when mining deal candidates — distinct from
// CachedDeal, which holds already-normalized, scored deals.
type AvailableFlight struct {
	ID            uint `gorm:"primaryKey"`
	Route         string
	Origin        string
	Destination   string
	Price         float64
	SeatCount     int
	DepartureTime time.Time
	Changeable    bool
}

func (AvailableFlight) TableName() string { return "available_flights" }

// AvailableHotelRoom is one row of operational hotel room inventory.
type AvailableHotelRoom struct {
	ID          uint `gorm:"primaryKey"`
	HotelName   string
	Destination string
	Neighborhood string
	PricePerNight float64
}

func (AvailableHotelRoom) TableName() string { return "available_hotel_rooms" }

// SampleAvailableFlights returns up to n rows drawn from a uniformly
// random offset in [0, count-n], avoiding a full-table ORDER BY RANDOM().
func (s *Store) SampleAvailableFlights(n int) ([]AvailableFlight, error) {
	var total int64
	if err := s.db.Model(&AvailableFlight{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count available flights: %w", err)
	}
	if total == 0 {
		return nil, nil
	}
	offset := randomOffset(total, n)
	var rows []AvailableFlight
	if err := s.db.Order("id").Offset(offset).Limit(n).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sample available flights: %w", err)
	}
	return rows, nil
}

// SampleAvailableHotelRooms returns up to n rows drawn the same way.
func (s *Store) SampleAvailableHotelRooms(n int) ([]AvailableHotelRoom, error) {
	var total int64
	if err := s.db.Model(&AvailableHotelRoom{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count available hotel rooms: %w", err)
	}
	if total == 0 {
		return nil, nil
	}
	offset := randomOffset(total, n)
	var rows []AvailableHotelRoom
	if err := s.db.Order("id").Offset(offset).Limit(n).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sample available hotel rooms: %w", err)
	}
	return rows, nil
}

func randomOffset(total int64, n int) int {
	span := total - int64(n)
	if span <= 0 {
		return 0
	}
	return rand.Intn(int(span) + 1)
}
