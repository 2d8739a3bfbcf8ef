package store

import "time"

// BundleRecord is the durable row for one generated Bundle, keyed by
// (user_id, search_id).
type BundleRecord struct {
	ID          uint   `gorm:"primaryKey"`
	BundleID    string `gorm:"uniqueIndex"`
	UserID      string `gorm:"index"`
	SearchID    string `gorm:"index"`
	Destination string
	TotalPrice  float64
	Savings     float64
	FitScore    float64
	Explanation string
	ValidUntil  time.Time
	Components  string `gorm:"type:jsonb"` // JSON-encoded []models.BundleComponent
	CreatedAt   time.Time
}

func (BundleRecord) TableName() string { return "bundles" }

// CachedDeal is the durable row for one normalized deal, keyed by deal_id.
type CachedDeal struct {
	ID              uint   `gorm:"primaryKey"`
	DealID          string `gorm:"uniqueIndex"`
	Type            string `gorm:"index"`
	Destination     string `gorm:"index"`
	Summary         string
	PriceOriginal   float64
	PriceDeal       float64
	DiscountPercent float64
	Score           float64 `gorm:"index"`
	Tags            string  // comma-joined
	Inventory       *int
	ValidUntil      time.Time `gorm:"index"`
	Route           *string
	RawPayload      string `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time `gorm:"index"`
}

func (CachedDeal) TableName() string { return "cached_deals" }

// WatchRecord is the durable row for a standing watch.
type WatchRecord struct {
	ID                     uint   `gorm:"primaryKey"`
	WatchID                string `gorm:"uniqueIndex"`
	UserID                 string `gorm:"index"`
	Destination            string `gorm:"index"`
	BudgetCeiling          float64
	MinFitScore            float64
	NotifyOnInventoryBelow *int
	Active                 bool `gorm:"index"`
	CreatedAt              time.Time
	LastTriggeredAt        *time.Time
}

func (WatchRecord) TableName() string { return "watch_requests" }

// UserPreference is the durable row for a user's remembered bundle
// preferences, written and read by SavePreferences/GetPreferences. No HTTP
// handler, including /concierge/chat, reads or writes it.
type UserPreference struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"uniqueIndex"`
	Preferences string `gorm:"type:jsonb"` // JSON-encoded models.Preferences
	UpdatedAt   time.Time
}

func (UserPreference) TableName() string { return "user_preferences" }
