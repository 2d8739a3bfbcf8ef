package models

import "time"

// FlightClass is the cabin preference on a BundleRequest.
type FlightClass string

const (
	ClassEconomy  FlightClass = "economy"
	ClassPremium  FlightClass = "premium"
	ClassBusiness FlightClass = "business"
	ClassFirst    FlightClass = "first"
)

// Preferences narrows the Cartesian product and feeds fit scoring.
type Preferences struct {
	FlightClass     FlightClass `json:"flight_class"`
	HotelStarRating []int       `json:"hotel_star_rating"` // accepted star ratings, e.g. [4, 5]; empty accepts any
	Amenities       []string    `json:"amenities"`
	PetFriendly     bool        `json:"pet_friendly"`
	AvoidRedEye     bool        `json:"avoid_red_eye"`
}

// HasStarRating reports whether rating is among the accepted ratings.
// An empty preference list accepts any rating.
func (p Preferences) HasStarRating(rating int) bool {
	if len(p.HotelStarRating) == 0 {
		return true
	}
	for _, r := range p.HotelStarRating {
		if r == rating {
			return true
		}
	}
	return false
}

// Constraints describes party size and room count.
type Constraints struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Rooms    int `json:"rooms"`
}

// BundleRequest is the ephemeral input to the bundle engine.
type BundleRequest struct {
	Origin         string      `json:"origin,omitempty"`
	Destination    string      `json:"destination"`
	DepartureDate  time.Time   `json:"departure_date"`
	ReturnDate     *time.Time  `json:"return_date,omitempty"`
	Budget         float64     `json:"budget"`
	Preferences    Preferences `json:"preferences"`
	Constraints    Constraints `json:"constraints"`
}

// EffectiveReturnDate returns ReturnDate if set, else departure+3 days.
func (r BundleRequest) EffectiveReturnDate() time.Time {
	if r.ReturnDate != nil {
		return *r.ReturnDate
	}
	return r.DepartureDate.AddDate(0, 0, 3)
}

// Nights is the number of nights between departure and the effective return.
func (r BundleRequest) Nights() int {
	d := r.EffectiveReturnDate().Sub(r.DepartureDate)
	nights := int(d.Hours() / 24)
	if nights < 0 {
		nights = 0
	}
	return nights
}

// ComponentType enumerates a bundle component's kind.
type ComponentType string

const (
	ComponentFlight ComponentType = "flight"
	ComponentHotel  ComponentType = "hotel"
	ComponentCar    ComponentType = "car"
)

// BundleComponent is one leg (flight, hotel, or car) of a Bundle.
type BundleComponent struct {
	Type     ComponentType          `json:"type"`
	Summary  string                 `json:"summary"`
	Price    float64                `json:"price"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Bundle is a fully priced, scored, ranked trip composed of exactly one
// flight, one hotel, and one car component.
type Bundle struct {
	BundleID     string            `json:"bundle_id"`
	Destination  string            `json:"destination"`
	TotalPrice   float64           `json:"total_price"`
	Savings      float64           `json:"savings"`
	FitScore     float64           `json:"fit_score"`
	Explanation  string            `json:"explanation"`
	ValidUntil   time.Time         `json:"valid_until"`
	Components   []BundleComponent `json:"components"`
}

// BundleResponse is the top-level result of generate(), persisted verbatim
// in the hot cache under the request fingerprint for idempotent replay.
type BundleResponse struct {
	SearchID string   `json:"search_id"`
	Bundles  []Bundle `json:"bundles"`
}
