package pipeline

import "time"

// normalize computes discount_percentage, derives valid_until, and
// attaches a confidence tier — stage 2 of the ingestion tick.
func normalize(c rawCandidate, now time.Time) normalizedCandidate {
	discount := 0.0
	if c.original > 0 {
		discount = 100 * (c.original - c.deal) / c.original
	}

	var validUntil time.Time
	if c.departureTime != nil {
		validUntil = c.departureTime.Add(-24 * time.Hour)
	} else {
		validUntil = now.Add(7 * 24 * time.Hour)
	}

	confidence := 0.6
	if discount > 30 {
		confidence = 0.8
	}

	return normalizedCandidate{
		rawCandidate:       c,
		discountPercentage: discount,
		validUntil:         validUntil,
		confidence:         confidence,
	}
}
