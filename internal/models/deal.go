// Package models holds the shared record types that flow between the
// bus, the deal cache, the bundle engine, and the watch evaluator.
package models

import (
	"encoding/json"
	"time"
)

// DealType enumerates the kinds of inventory a deal can describe.
type DealType string

const (
	DealFlight DealType = "flight"
	DealHotel  DealType = "hotel"
	DealCar    DealType = "car"
)

// Price captures the original/deal/discount triple for a deal or bundle
// component. DiscountPercent is derived, never set independently.
type Price struct {
	Original        float64 `json:"original"`
	Deal            float64 `json:"deal"`
	DiscountPercent float64 `json:"discount_percent"`
}

// NewPrice builds a Price and derives DiscountPercent, rounded to 2 decimals.
func NewPrice(original, deal float64) Price {
	p := Price{Original: original, Deal: deal}
	if original > 0 {
		p.DiscountPercent = round2(100 * (original - deal) / original)
	}
	return p
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// Discount returns the absolute original-minus-deal amount, used by the
// bundle engine's deal overlay to add a matched deal's savings.
func (p Price) Discount() float64 {
	return p.Original - p.Deal
}

// Deal is the normalized, scored, tagged offer surfaced by the ingestion
// pipeline and consumed by the bundle engine and watch evaluator.
type Deal struct {
	DealID      string          `json:"deal_id"`
	Type        DealType        `json:"type"`
	Destination string          `json:"destination"`
	Summary     string          `json:"summary"`
	Price       Price           `json:"price"`
	Score       float64         `json:"score"`
	Tags        []string        `json:"tags"`
	Inventory   *int            `json:"inventory,omitempty"`
	ValidUntil  time.Time       `json:"valid_until"`
	Route       *string         `json:"route,omitempty"`
	RawPayload  json.RawMessage `json:"raw_payload,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Expired reports whether the deal is no longer valid as of now.
func (d *Deal) Expired(now time.Time) bool {
	return !d.ValidUntil.After(now)
}

// HasTag reports whether tag is present in the deal's tag set.
func (d *Deal) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DealEvent is the wire envelope published to / consumed from the
// `deal.events` bus topic.
type DealEvent struct {
	EventType   string          `json:"event_type"`
	DealID      string          `json:"deal_id"`
	Type        DealType        `json:"type"`
	Destination string          `json:"destination"`
	Route       *string         `json:"route,omitempty"`
	Summary     string          `json:"summary"`
	Price       Price           `json:"price"`
	Score       float64         `json:"score"`
	Tags        []string        `json:"tags"`
	ValidUntil  time.Time       `json:"valid_until"`
	Inventory   *int            `json:"inventory,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// ToDeal converts a wire event into the cache's canonical Deal record.
func (e DealEvent) ToDeal() Deal {
	return Deal{
		DealID:      e.DealID,
		Type:        e.Type,
		Destination: e.Destination,
		Summary:     e.Summary,
		Price:       e.Price,
		Score:       e.Score,
		Tags:        e.Tags,
		Inventory:   e.Inventory,
		ValidUntil:  e.ValidUntil,
		Route:       e.Route,
		RawPayload:  e.Raw,
		UpdatedAt:   e.Timestamp,
	}
}
