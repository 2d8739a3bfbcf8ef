package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/store"
)

const topEmitCount = 10

// Publisher emits canonical deal events onto the bus.
type Publisher interface {
	Publish(ctx context.Context, event models.DealEvent) error
}

// Sources configures the optional CSV inputs mined in stage 1; any path
// left empty falls back to synthesized records.
type Sources struct {
	AirbnbListingsPath string
	FlightPricesPath   string
	HotelBookingsPath  string
}

// Store is the durable-store slice the pipeline needs: persisting scored
// candidates and sampling operational inventory for stage 1. Narrowed
// from *store.Store so Tick() can be exercised against a fake.
type Store interface {
	UpsertDeal(d store.CachedDeal) error
	SampleAvailableFlights(n int) ([]store.AvailableFlight, error)
	SampleAvailableHotelRooms(n int) ([]store.AvailableHotelRoom, error)
}

// Pipeline runs the five-stage deal ingestion tick on a cron schedule.
type Pipeline struct {
	store   Store
	bus     Publisher
	sources Sources
	log     *logging.Logger
}

// New builds a Pipeline.
func New(st Store, bus Publisher, sources Sources, log *logging.Logger) *Pipeline {
	return &Pipeline{store: st, bus: bus, sources: sources, log: log}
}

// Start schedules Tick every 5 minutes via cron, returning the running
// scheduler so the caller can Stop() it on shutdown.
func (p *Pipeline) Start(ctx context.Context) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("*/5 * * * *", func() {
		if err := p.Tick(ctx); err != nil {
			p.log.WithError(err).Warn("ingestion tick failed, next tick retries from scratch")
		}
	})
	if err != nil {
		p.log.WithError(err).Warn("failed to schedule ingestion tick")
	}
	c.Start()
	return c
}

// Tick executes one ingestion pass: ingest, normalize, score, tag,
// persist, and emit. No failure aborts the tick: a failed upsert is logged
// and skips that candidate, a failed publish is logged and skips that
// event, and a failed inventory sample contributes no candidates. A store
// or bus connectivity failure therefore does not fail the tick; Tick
// always returns nil.
func (p *Pipeline) Tick(ctx context.Context) error {
	now := time.Now().UTC()

	var raw []rawCandidate
	raw = append(raw, ingestAirbnb(p.sources.AirbnbListingsPath)...)
	raw = append(raw, ingestFlightPrices(p.sources.FlightPricesPath)...)
	raw = append(raw, ingestHotelBookings(p.sources.HotelBookingsPath)...)
	raw = append(raw, ingestOperationalInventory(p.store)...)

	tagged := make([]taggedCandidate, 0, len(raw))
	for _, c := range raw {
		n := normalize(c, now)
		s := score(n, now)
		tagged = append(tagged, tag(s, now))
	}

	sort.Slice(tagged, func(i, j int) bool { return tagged[i].aiScore > tagged[j].aiScore })

	var persisted []models.Deal
	for _, c := range tagged {
		deal := toDeal(c, now)
		if err := p.store.UpsertDeal(toRecord(deal)); err != nil {
			p.log.WithError(err).Warn("failed to persist deal candidate, skipping")
			continue
		}
		persisted = append(persisted, deal)
	}

	emitCount := topEmitCount
	if len(persisted) < emitCount {
		emitCount = len(persisted)
	}
	for _, d := range persisted[:emitCount] {
		event := models.DealEvent{
			EventType:   "deal.upserted",
			DealID:      d.DealID,
			Type:        d.Type,
			Destination: d.Destination,
			Route:       d.Route,
			Summary:     d.Summary,
			Price:       d.Price,
			Score:       d.Score,
			Tags:        d.Tags,
			ValidUntil:  d.ValidUntil,
			Inventory:   d.Inventory,
			Timestamp:   now,
		}
		if err := p.bus.Publish(ctx, event); err != nil {
			p.log.WithError(err).Warn("failed to emit deal event, skipping")
		}
	}

	return nil
}

func toDeal(c taggedCandidate, now time.Time) models.Deal {
	var seatInventory *int
	if c.seatCount != nil {
		v := *c.seatCount
		seatInventory = &v
	}
	return models.Deal{
		DealID:      dealID(c.referenceID, c.dealType),
		Type:        models.DealType(c.dealType),
		Destination: c.destination,
		Summary:     c.summary,
		Price:       models.NewPrice(c.original, c.deal),
		Score:       clampScore(c.aiScore),
		Tags:        c.tags,
		Inventory:   seatInventory,
		ValidUntil:  c.validUntil,
		Route:       c.route,
		UpdatedAt:   now,
	}
}

func toRecord(d models.Deal) store.CachedDeal {
	return store.CachedDeal{
		DealID:          d.DealID,
		Type:            string(d.Type),
		Destination:     d.Destination,
		Summary:         d.Summary,
		PriceOriginal:   d.Price.Original,
		PriceDeal:       d.Price.Deal,
		DiscountPercent: d.Price.DiscountPercent,
		Score:           d.Score,
		Tags:            store.JoinTags(d.Tags),
		Inventory:       d.Inventory,
		ValidUntil:      d.ValidUntil,
		Route:           d.Route,
		RawPayload:      "{}",
	}
}

// dealID keys an upsert by (reference_id, type).
func dealID(referenceID, dealType string) string {
	return dealType + ":" + referenceID
}

// clampScore treats the 100-point scale as a soft cap rather than an
// equality: the raw weighted sum can fall short of, but never exceed, 100.
func clampScore(raw float64) float64 {
	if raw > 100 {
		return 100
	}
	if raw < 0 {
		return 0
	}
	return raw
}
