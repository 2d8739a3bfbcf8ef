package pipeline

import (
	"math/rand"
	"time"
)

// score computes ai_score as a weighted sum of discount, urgency,
// availability, and popularity components — stage 3 of the ingestion
// tick.
func score(c normalizedCandidate, now time.Time) scoredCandidate {
	total := discountScore(c.discountPercentage) +
		urgencyScore(c.validUntil, now) +
		availabilityScore(c) +
		popularityScore()

	return scoredCandidate{normalizedCandidate: c, aiScore: total}
}

func discountScore(discount float64) float64 {
	switch {
	case discount > 50:
		return 40
	case discount > 30:
		return 30
	case discount > 20:
		return 20
	default:
		return 0.5 * discount
	}
}

func urgencyScore(validUntil, now time.Time) float64 {
	remaining := validUntil.Sub(now)
	switch {
	case remaining < 24*time.Hour:
		return 20
	case remaining < 72*time.Hour:
		return 15
	case remaining < 168*time.Hour:
		return 10
	default:
		return 5
	}
}

func availabilityScore(c normalizedCandidate) float64 {
	if c.dealType != "flight" {
		return 15 // hotels: constant
	}
	if c.seatCount == nil {
		return 5
	}
	switch {
	case *c.seatCount > 50:
		return 15
	case *c.seatCount > 20:
		return 10
	default:
		return 5
	}
}

// popularityScore is a uniform random placeholder for a future historical
// popularity model.
func popularityScore() float64 {
	return rand.Float64() * 20
}
