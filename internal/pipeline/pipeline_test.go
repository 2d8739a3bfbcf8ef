package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/store"
)

type fakeStore struct {
	upserted []store.CachedDeal
}

func (f *fakeStore) UpsertDeal(d store.CachedDeal) error {
	f.upserted = append(f.upserted, d)
	return nil
}

func (f *fakeStore) SampleAvailableFlights(n int) ([]store.AvailableFlight, error) {
	return nil, nil
}

func (f *fakeStore) SampleAvailableHotelRooms(n int) ([]store.AvailableHotelRoom, error) {
	return nil, nil
}

type fakePublisher struct {
	published []models.DealEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event models.DealEvent) error {
	f.published = append(f.published, event)
	return nil
}

func testPipelineLogger() *logging.Logger {
	return logging.New(logging.Config{Service: "test", Level: "error"})
}

func TestTickPersistsAllCandidatesAndEmitsTopN(t *testing.T) {
	st := &fakeStore{}
	bus := &fakePublisher{}
	p := New(st, bus, Sources{}, testPipelineLogger())

	err := p.Tick(context.Background())
	require.NoError(t, err)

	// three synthetic sources at 50 records each, no operational inventory.
	assert.Len(t, st.upserted, 150)
	assert.Len(t, bus.published, topEmitCount)
}

func TestTickGeneratesTheSameCandidateSetEachRun(t *testing.T) {
	st := &fakeStore{}
	bus := &fakePublisher{}
	p := New(st, bus, Sources{}, testPipelineLogger())

	require.NoError(t, p.Tick(context.Background()))
	firstCount := len(st.upserted)
	require.NoError(t, p.Tick(context.Background()))

	// synthetic fallback generation is deterministic: a second tick upserts
	// the same 150 candidates again (the fake has no upsert-by-key dedup;
	// the real store's UpsertDeal does).
	assert.Equal(t, firstCount*2, len(st.upserted))
	assert.Equal(t, topEmitCount*2, len(bus.published))
}
