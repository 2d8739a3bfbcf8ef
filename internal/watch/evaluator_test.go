package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/store"
)

func TestGroupByDestinationBucketsDeals(t *testing.T) {
	deals := []models.Deal{
		{DealID: "d1", Destination: "LAX"},
		{DealID: "d2", Destination: "LAX"},
		{DealID: "d3", Destination: "SFO"},
	}
	grouped := groupByDestination(deals)
	assert.Len(t, grouped["LAX"], 2)
	assert.Len(t, grouped["SFO"], 1)
	assert.Len(t, grouped["JFK"], 0)
}

func TestFirstWithinBudgetReturnsFirstMatchInScoreOrder(t *testing.T) {
	deals := []models.Deal{
		{DealID: "d1", Price: models.Price{Deal: 300}},
		{DealID: "d2", Price: models.Price{Deal: 250}},
		{DealID: "d3", Price: models.Price{Deal: 100}},
	}
	got := firstWithinBudget(deals, 280)
	assert.NotNil(t, got)
	assert.Equal(t, "d2", got.DealID)
}

func TestFirstWithinBudgetNoMatch(t *testing.T) {
	deals := []models.Deal{{DealID: "d1", Price: models.Price{Deal: 500}}}
	assert.Nil(t, firstWithinBudget(deals, 100))
}

type fakeWatchStore struct {
	watches      []store.WatchRecord
	deactivated  []string
	deactivateAt time.Time
}

func (f *fakeWatchStore) ActiveWatches() ([]store.WatchRecord, error) {
	return f.watches, nil
}

func (f *fakeWatchStore) DeactivateTriggered(watchIDs []string, triggeredAt time.Time) error {
	f.deactivated = append(f.deactivated, watchIDs...)
	f.deactivateAt = triggeredAt
	return nil
}

type fakeDealSource struct {
	deals []models.Deal
}

func (f fakeDealSource) TopDeals(ctx context.Context, destination string, limit int) ([]models.Deal, error) {
	return f.deals, nil
}

type fakeBroadcaster struct {
	broadcasts []broadcastCall
}

type broadcastCall struct {
	payload interface{}
	userID  string
}

func (f *fakeBroadcaster) Broadcast(payload interface{}, userID string) {
	f.broadcasts = append(f.broadcasts, broadcastCall{payload: payload, userID: userID})
}

func testEvaluatorLogger() *logging.Logger {
	return logging.New(logging.Config{Service: "test", Level: "error"})
}

func TestTickTriggersWatchWithinBudgetAndDeactivatesIt(t *testing.T) {
	st := &fakeWatchStore{
		watches: []store.WatchRecord{
			{WatchID: "w1", UserID: "u1", Destination: "LAX", BudgetCeiling: 300, Active: true},
		},
	}
	deals := fakeDealSource{deals: []models.Deal{
		{DealID: "d1", Destination: "LAX", Price: models.Price{Deal: 250}},
	}}
	fanout := &fakeBroadcaster{}
	e := New(st, deals, fanout, time.Minute, testEvaluatorLogger())

	err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"w1"}, st.deactivated)
	require.Len(t, fanout.broadcasts, 1)
	assert.Equal(t, "u1", fanout.broadcasts[0].userID)
}

func TestTickSkipsWatchOutsideBudgetAndLeavesItActive(t *testing.T) {
	st := &fakeWatchStore{
		watches: []store.WatchRecord{
			{WatchID: "w1", UserID: "u1", Destination: "LAX", BudgetCeiling: 100, Active: true},
		},
	}
	deals := fakeDealSource{deals: []models.Deal{
		{DealID: "d1", Destination: "LAX", Price: models.Price{Deal: 250}},
	}}
	fanout := &fakeBroadcaster{}
	e := New(st, deals, fanout, time.Minute, testEvaluatorLogger())

	err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Empty(t, st.deactivated)
	assert.Empty(t, fanout.broadcasts)
}

// failingDealSource errors on every fetch, so a Tick that still returns nil
// never called it.
type failingDealSource struct{}

func (failingDealSource) TopDeals(ctx context.Context, destination string, limit int) ([]models.Deal, error) {
	return nil, errors.New("deal fetch not expected")
}

func TestTickWithNoActiveWatchesSkipsDealFetch(t *testing.T) {
	st := &fakeWatchStore{}
	deals := failingDealSource{}
	fanout := &fakeBroadcaster{}
	e := New(st, deals, fanout, time.Minute, testEvaluatorLogger())

	require.NoError(t, e.Tick(context.Background()))
	assert.Empty(t, fanout.broadcasts)
}
