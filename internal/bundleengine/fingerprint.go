// Package bundleengine implements the synchronous bundle-generation path:
// fan out to three upstream inventory services, enumerate a Cartesian
// product, overlay cached deals, score fit, and cache the result
// idempotently under the request fingerprint.
package bundleengine

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/iaros/concierge/internal/models"
)

// canonicalRequest mirrors models.BundleRequest with the date fields
// normalized to plain ISO-8601 and the slice preferences sorted, so the
// same logical request always serializes identically regardless of
// preference order or time zone offset. Its JSON keys are emitted in this
// struct's fixed declaration order; they are not sorted alphabetically.
type canonicalRequest struct {
	Origin        string   `json:"origin,omitempty"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departure_date"`
	ReturnDate    string   `json:"return_date,omitempty"`
	Budget        float64  `json:"budget"`
	FlightClass   string   `json:"flight_class"`
	HotelStars    []int    `json:"hotel_star_rating,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	PetFriendly   bool     `json:"pet_friendly"`
	AvoidRedEye   bool     `json:"avoid_red_eye"`
	Adults        int      `json:"adults"`
	Children      int      `json:"children"`
	Rooms         int      `json:"rooms"`
}

// Fingerprint computes a deterministic hash over the canonical
// serialization of req, used to key the hot cache under bundle:{fingerprint}.
func Fingerprint(req models.BundleRequest) string {
	stars := append([]int(nil), req.Preferences.HotelStarRating...)
	sort.Ints(stars)
	amenities := append([]string(nil), req.Preferences.Amenities...)
	sort.Strings(amenities)

	cr := canonicalRequest{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate.UTC().Format("2006-01-02"),
		Budget:        req.Budget,
		FlightClass:   string(req.Preferences.FlightClass),
		HotelStars:    stars,
		Amenities:     amenities,
		PetFriendly:   req.Preferences.PetFriendly,
		AvoidRedEye:   req.Preferences.AvoidRedEye,
		Adults:        req.Constraints.Adults,
		Children:      req.Constraints.Children,
		Rooms:         req.Constraints.Rooms,
	}
	if req.ReturnDate != nil {
		cr.ReturnDate = req.ReturnDate.UTC().Format("2006-01-02")
	}

	// json.Marshal on a struct already emits fields in declaration order,
	// which is fixed and deterministic here — no extra key-sort needed.
	data, err := json.Marshal(cr)
	if err != nil {
		data = []byte(req.Destination)
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func bundleCacheKey(fingerprint string) string {
	return "bundle:" + fingerprint
}
