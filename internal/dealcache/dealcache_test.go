package dealcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/store"
)

func testLogger() *logging.Logger {
	return logging.New(logging.Config{Service: "test", Level: "error"})
}

func TestRecordToDealRoundTripsPriceAndTags(t *testing.T) {
	inv := 4
	r := store.CachedDeal{
		DealID:          "flight:abc",
		Type:            "flight",
		Destination:     "LAX",
		Summary:         "spring sale",
		PriceOriginal:   200,
		PriceDeal:       150,
		DiscountPercent: 25,
		Score:           80,
		Tags:            "flash_deal,last_minute",
		Inventory:       &inv,
		ValidUntil:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	d := recordToDeal(r)
	assert.Equal(t, models.DealFlight, d.Type)
	assert.Equal(t, []string{"flash_deal", "last_minute"}, d.Tags)
	assert.Equal(t, 150.0, d.Price.Deal)
	require.NotNil(t, d.Inventory)
	assert.Equal(t, 4, *d.Inventory)
}

func TestBundlesForUserPrefersHotCache(t *testing.T) {
	hot := newFakeHotCache()
	c := New(nil, hot, testLogger())

	resp := models.BundleResponse{SearchID: "search-1", Bundles: []models.Bundle{{BundleID: "b1", Destination: "LAX"}}}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.NoError(t, hot.Set(context.Background(), "bundles:user-1:search-1", data, time.Minute))

	out, err := c.BundlesForUser(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "search-1", out[0].SearchID)
}

// fakeHotCache is a minimal cache.Cache so dealcache tests never need a
// live store for the hot-cache-hit path.
type fakeHotCache struct {
	entries map[string][]byte
}

func newFakeHotCache() *fakeHotCache {
	return &fakeHotCache{entries: map[string][]byte{}}
}

func (f *fakeHotCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := f.entries[key]
	return v, ok
}

func (f *fakeHotCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.entries[key] = value
	return nil
}

func (f *fakeHotCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeHotCache) Keys(_ context.Context, pattern string) ([]string, error) {
	var out []string
	for k := range f.entries {
		if matchGlob(pattern, k) {
			out = append(out, k)
		}
	}
	return out, nil
}

// matchGlob implements the same `prefix:*` matching BundlesForUser relies
// on, without pulling in path.Match's full semantics for this fake.
func matchGlob(pattern, key string) bool {
	if len(pattern) >= 1 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(key) >= len(prefix) && key[:len(prefix)] == prefix
	}
	return pattern == key
}
