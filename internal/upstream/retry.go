// Package upstream fans out to the three independent inventory search
// services (flights, hotels, cars), wrapping each call in an explicit
// retry policy and a circuit breaker, following
// services/distribution_service/src/services/gds_service.go's use of
// resty + gobreaker.
package upstream

import (
	"context"
	"math"
	"time"
)

// RetryPolicy is a first-class value expressing exponential backoff,
// composed with each upstream call rather than applied as an implicit
// decorator: base 0.3s, cap 3s, up to 3 attempts.
type RetryPolicy struct {
	Base       time.Duration
	Max        time.Duration
	Attempts   int
}

// DefaultRetryPolicy is the standard backoff used by every upstream client.
var DefaultRetryPolicy = RetryPolicy{
	Base:     300 * time.Millisecond,
	Max:      3 * time.Second,
	Attempts: 3,
}

// Wait returns the backoff delay before attempt n (0-indexed).
func (p RetryPolicy) Wait(attempt int) time.Duration {
	d := p.Base * time.Duration(math.Pow(2, float64(attempt)))
	if d > p.Max {
		return p.Max
	}
	return d
}

// Do runs fn up to p.Attempts times, sleeping per Wait between attempts,
// and returns the last error if every attempt fails. It honors ctx
// cancellation between attempts.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == p.Attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Wait(attempt)):
		}
	}
	return err
}
