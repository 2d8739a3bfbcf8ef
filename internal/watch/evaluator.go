// Package watch implements the periodic evaluator that matches standing
// watch requests against current top deals and pushes alerts over the
// connection registry.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/store"
)

// DealSource supplies the destination-unfiltered top deals a tick joins
// watches against.
type DealSource interface {
	TopDeals(ctx context.Context, destination string, limit int) ([]models.Deal, error)
}

// Broadcaster delivers a deal_alert payload to a user's live channels.
type Broadcaster interface {
	Broadcast(payload interface{}, userID string)
}

// WatchStore is the durable-store slice the evaluator needs: the active
// watch snapshot and the triggered-watch batch deactivation. Narrowed
// from *store.Store so Tick() can be exercised against a fake.
type WatchStore interface {
	ActiveWatches() ([]store.WatchRecord, error)
	DeactivateTriggered(watchIDs []string, triggeredAt time.Time) error
}

const topDealsPerTick = 5

// Evaluator runs the watch-matching loop on a fixed interval. Ticks are
// strictly sequential; no overlapping ticks.
type Evaluator struct {
	store    WatchStore
	deals    DealSource
	fanout   Broadcaster
	interval time.Duration
	log      *logging.Logger
}

// New builds an Evaluator.
func New(st WatchStore, deals DealSource, fanout Broadcaster, interval time.Duration, log *logging.Logger) *Evaluator {
	return &Evaluator{store: st, deals: deals, fanout: fanout, interval: interval, log: log}
}

// Run loops until ctx is cancelled, cooperatively checking for
// cancellation at each sleep boundary. Errors during a tick are logged
// and swallowed; the loop sleeps and retries.
func (e *Evaluator) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Tick(ctx); err != nil {
				e.log.WithError(err).Warn("watch evaluator tick failed, retrying next interval")
			}
		}
	}
}

// Tick executes one evaluation pass: snapshot active watches, fetch top
// deals, group by destination, match each watch against its bucket,
// batch-deactivate triggered watches, and broadcast deal_alert events.
func (e *Evaluator) Tick(ctx context.Context) error {
	watches, err := e.store.ActiveWatches()
	if err != nil {
		return fmt.Errorf("failed to snapshot active watches: %w", err)
	}
	if len(watches) == 0 {
		return nil
	}

	deals, err := e.deals.TopDeals(ctx, "", topDealsPerTick)
	if err != nil {
		return fmt.Errorf("failed to fetch top deals: %w", err)
	}
	byDestination := groupByDestination(deals)

	now := time.Now().UTC()
	var triggeredIDs []string
	type firing struct {
		watchID, userID, destination, message string
	}
	var fired []firing

	for _, w := range watches {
		bucket := byDestination[w.Destination]
		deal := firstWithinBudget(bucket, w.BudgetCeiling)
		if deal == nil {
			continue
		}
		triggeredIDs = append(triggeredIDs, w.WatchID)
		fired = append(fired, firing{
			watchID:     w.WatchID,
			userID:      w.UserID,
			destination: w.Destination,
			message:     fmt.Sprintf("Deal %s now $%.2f", deal.DealID, deal.Price.Deal),
		})
	}

	if len(triggeredIDs) > 0 {
		if err := e.store.DeactivateTriggered(triggeredIDs, now); err != nil {
			return fmt.Errorf("failed to deactivate triggered watches: %w", err)
		}
	}

	for _, f := range fired {
		event := models.WatchEvent{
			WatchID:     f.watchID,
			UserID:      f.userID,
			Destination: f.destination,
			Message:     f.message,
			TriggeredAt: now,
		}
		e.fanout.Broadcast(map[string]interface{}{
			"type": "deal_alert",
			"data": event,
		}, f.userID)
	}
	return nil
}

func groupByDestination(deals []models.Deal) map[string][]models.Deal {
	out := make(map[string][]models.Deal)
	for _, d := range deals {
		out[d.Destination] = append(out[d.Destination], d)
	}
	return out
}

// firstWithinBudget returns the first deal (score-descending order,
// already guaranteed by TopDeals) whose deal price is at or below
// ceiling — at most one trigger per watch per tick.
func firstWithinBudget(deals []models.Deal, ceiling float64) *models.Deal {
	for i := range deals {
		if deals[i].Price.Deal <= ceiling {
			return &deals[i]
		}
	}
	return nil
}
