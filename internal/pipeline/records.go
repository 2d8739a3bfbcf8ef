// Package pipeline implements the deal ingestion worker: a five-stage
// tick (ingest, normalize, score, tag, persist & emit) run on a fixed
// cadence by the deals-worker binary, grounded in
// data_analytics/engines/data_pipeline_engine.go's stage-based processing
// shape.
package pipeline

import "time"

// rawCandidate is an unscored, untagged deal candidate as surfaced by
// stage 1 (Ingest), from either a CSV source or the operational database.
type rawCandidate struct {
	referenceID    string
	dealType       string // flight, hotel, car
	destination    string
	summary        string
	original       float64
	deal           float64
	departureTime  *time.Time
	seatCount      *int
	changeableFee  bool
	route          *string
}

// normalizedCandidate is the stage-2 output: discount/valid_until/confidence
// derived, ready for scoring.
type normalizedCandidate struct {
	rawCandidate
	discountPercentage float64
	validUntil         time.Time
	confidence         float64
}

// scoredCandidate is the stage-3 output.
type scoredCandidate struct {
	normalizedCandidate
	aiScore float64
}

// taggedCandidate is the stage-4 output, ready for stage 5.
type taggedCandidate struct {
	scoredCandidate
	tags []string
}
