package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveReturnDateExtrapolates(t *testing.T) {
	dep := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	req := BundleRequest{DepartureDate: dep}
	assert.Equal(t, dep.AddDate(0, 0, 3), req.EffectiveReturnDate())
}

func TestEffectiveReturnDatePrefersExplicit(t *testing.T) {
	dep := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	ret := dep.AddDate(0, 0, 10)
	req := BundleRequest{DepartureDate: dep, ReturnDate: &ret}
	assert.Equal(t, ret, req.EffectiveReturnDate())
}

func TestNightsComputation(t *testing.T) {
	dep := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	ret := dep.AddDate(0, 0, 4)
	req := BundleRequest{DepartureDate: dep, ReturnDate: &ret}
	assert.Equal(t, 4, req.Nights())
}

func TestHasStarRatingEmptyAcceptsAny(t *testing.T) {
	p := Preferences{}
	assert.True(t, p.HasStarRating(3))
}

func TestHasStarRatingRestricts(t *testing.T) {
	p := Preferences{HotelStarRating: []int{4, 5}}
	assert.True(t, p.HasStarRating(4))
	assert.False(t, p.HasStarRating(3))
}
