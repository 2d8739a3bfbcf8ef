// Package dealcache is the shared authoritative store of normalized deal
// events: upsert, top-K destination-bounded queries, and the bundle
// history's hot-cache-first / durable-fallback read path.
package dealcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iaros/concierge/internal/cache"
	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/store"
)

// Cache is the deal cache: durable store is authoritative, the hot cache
// is an accelerator that may be reconstructed at any time — no
// transactional coupling between the two.
type Cache struct {
	store *store.Store
	hot   cache.Cache
	log   *logging.Logger
}

// New builds a deal Cache over the durable store and hot cache.
func New(st *store.Store, hot cache.Cache, log *logging.Logger) *Cache {
	return &Cache{store: st, hot: hot, log: log}
}

// UpsertDealEvent inserts or updates a Deal keyed by deal_id, refreshing
// updated_at on every write (last-writer-wins).
func (c *Cache) UpsertDealEvent(d models.Deal) error {
	var inventory *int
	if d.Inventory != nil {
		v := *d.Inventory
		inventory = &v
	}
	rec := store.CachedDeal{
		DealID:          d.DealID,
		Type:            string(d.Type),
		Destination:     d.Destination,
		Summary:         d.Summary,
		PriceOriginal:   d.Price.Original,
		PriceDeal:       d.Price.Deal,
		DiscountPercent: d.Price.DiscountPercent,
		Score:           d.Score,
		Tags:            store.JoinTags(d.Tags),
		Inventory:       inventory,
		ValidUntil:      d.ValidUntil,
		Route:           d.Route,
		RawPayload:      string(d.RawPayload),
	}
	if len(rec.RawPayload) == 0 {
		rec.RawPayload = "{}"
	}
	return c.store.UpsertDeal(rec)
}

// TopDeals returns the limit highest-score unexpired deals, optionally
// filtered to destination, tie-broken by updated_at desc.
func (c *Cache) TopDeals(ctx context.Context, destination string, limit int) ([]models.Deal, error) {
	recs, err := c.store.TopDeals(destination, limit, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("top deals query failed: %w", err)
	}
	out := make([]models.Deal, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordToDeal(r))
	}
	return out, nil
}

// BundlesForUser reads the hot cache first (pattern bundles:{user_id}:*),
// falling back to the durable store ordered by creation time desc.
func (c *Cache) BundlesForUser(ctx context.Context, userID string, limit int) ([]models.BundleResponse, error) {
	keys, err := c.hot.Keys(ctx, fmt.Sprintf("bundles:%s:*", userID))
	if err == nil && len(keys) > 0 {
		var out []models.BundleResponse
		for _, k := range keys {
			raw, ok := c.hot.Get(ctx, k)
			if !ok {
				continue
			}
			var resp models.BundleResponse
			if jsonErr := json.Unmarshal(raw, &resp); jsonErr == nil {
				out = append(out, resp)
			}
			if len(out) >= limit {
				break
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	recs, err := c.store.BundlesForUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("bundles for user query failed: %w", err)
	}
	grouped := map[string]*models.BundleResponse{}
	var order []string
	for _, r := range recs {
		resp, ok := grouped[r.SearchID]
		if !ok {
			resp = &models.BundleResponse{SearchID: r.SearchID}
			grouped[r.SearchID] = resp
			order = append(order, r.SearchID)
		}
		var components []models.BundleComponent
		_ = store.DecodeComponents(r.Components, &components)
		resp.Bundles = append(resp.Bundles, models.Bundle{
			BundleID:    r.BundleID,
			Destination: r.Destination,
			TotalPrice:  r.TotalPrice,
			Savings:     r.Savings,
			FitScore:    r.FitScore,
			Explanation: r.Explanation,
			ValidUntil:  r.ValidUntil,
			Components:  components,
		})
	}
	out := make([]models.BundleResponse, 0, len(order))
	for _, id := range order {
		out = append(out, *grouped[id])
	}
	return out, nil
}

// CreateWatch assigns a watch_id, marks the watch active, and persists it.
func (c *Cache) CreateWatch(payload models.WatchRequestCreate) (models.Watch, error) {
	minFit := models.DefaultMinFitScore
	if payload.MinFitScore != nil {
		minFit = *payload.MinFitScore
	}
	notifyBelow := payload.NotifyOnInventoryBelow
	if notifyBelow == nil {
		v := models.DefaultNotifyOnInventoryBelow
		notifyBelow = &v
	}

	w := models.Watch{
		WatchID:                uuid.NewString(),
		UserID:                 payload.UserID,
		Destination:            payload.Destination,
		BudgetCeiling:          payload.BudgetCeiling,
		MinFitScore:            minFit,
		NotifyOnInventoryBelow: notifyBelow,
		Active:                 true,
		CreatedAt:              time.Now().UTC(),
	}

	rec := store.WatchRecord{
		WatchID:                w.WatchID,
		UserID:                 w.UserID,
		Destination:            w.Destination,
		BudgetCeiling:          w.BudgetCeiling,
		MinFitScore:            w.MinFitScore,
		NotifyOnInventoryBelow: w.NotifyOnInventoryBelow,
		Active:                 true,
		CreatedAt:              w.CreatedAt,
	}
	if err := c.store.CreateWatch(rec); err != nil {
		return models.Watch{}, fmt.Errorf("failed to create watch: %w", err)
	}
	return w, nil
}

func recordToDeal(r store.CachedDeal) models.Deal {
	return models.Deal{
		DealID:      r.DealID,
		Type:        models.DealType(r.Type),
		Destination: r.Destination,
		Summary:     r.Summary,
		Price: models.Price{
			Original:        r.PriceOriginal,
			Deal:            r.PriceDeal,
			DiscountPercent: r.DiscountPercent,
		},
		Score:      r.Score,
		Tags:       store.SplitTags(r.Tags),
		Inventory:  r.Inventory,
		ValidUntil: r.ValidUntil,
		Route:      r.Route,
		RawPayload: []byte(r.RawPayload),
		UpdatedAt:  r.UpdatedAt,
	}
}
