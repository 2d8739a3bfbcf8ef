package bundleengine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iaros/concierge/internal/apperror"
	"github.com/iaros/concierge/internal/cache"
	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
	"github.com/iaros/concierge/internal/store"
)

const (
	bundleCacheTTL      = 10 * time.Minute
	userBundlesCacheTTL = 15 * time.Minute
	dealOverlayK        = 5
	maxFlightCandidates = 3
	maxHotelCandidates  = 3
	maxCarCandidates    = 2

	flightBudgetShare = 0.40
	hotelBudgetShare  = 0.40
	carBudgetShare    = 0.20
)

// DealSource is the subset of the deal cache the bundle engine needs:
// the top-K unexpired deals for a destination, score-descending.
type DealSource interface {
	TopDeals(ctx context.Context, destination string, limit int) ([]models.Deal, error)
}

// FlightSearcher, HotelSearcher, and CarSearcher narrow *upstream.Client
// down to the one method each component needs, so tests can substitute
// fakes without standing up an HTTP server.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, req models.SearchRequest, budgetShare float64) []models.FlightOption
}
type HotelSearcher interface {
	SearchHotels(ctx context.Context, req models.SearchRequest, budgetShare float64) []models.HotelOption
}
type CarSearcher interface {
	SearchCars(ctx context.Context, req models.SearchRequest, budgetShare float64) []models.CarOption
}

// Engine generates ranked, priced bundles for a BundleRequest, fanning out
// to three upstream services, overlaying cached deals, and persisting the
// result — caching and persistence failures degrade silently, since the
// bundle was already successfully computed and is worth returning either
// way.
type Engine struct {
	flights FlightSearcher
	hotels  HotelSearcher
	cars    CarSearcher

	deals DealSource
	cache cache.Cache
	store *store.Store

	bundleLimit int
	log         *logging.Logger
}

// New builds an Engine wired to the three upstream clients, the deal
// cache, the hot cache, and the durable store.
func New(flights FlightSearcher, hotels HotelSearcher, cars CarSearcher, deals DealSource, c cache.Cache, st *store.Store, bundleLimit int, log *logging.Logger) *Engine {
	return &Engine{
		flights:     flights,
		hotels:      hotels,
		cars:        cars,
		deals:       deals,
		cache:       c,
		store:       st,
		bundleLimit: bundleLimit,
		log:         log,
	}
}

// Generate runs the full bundle pipeline for req, returning the stored
// response verbatim on a hot-cache hit: identical requests against a live
// cache produce byte-identical responses.
func (e *Engine) Generate(ctx context.Context, req models.BundleRequest, userID string) (models.BundleResponse, error) {
	if req.Destination == "" {
		return models.BundleResponse{}, apperror.Validation("generate", "destination is required")
	}
	if req.Budget <= 0 {
		return models.BundleResponse{}, apperror.Validation("generate", "budget must be positive")
	}

	fp := Fingerprint(req)
	if raw, ok := e.cache.Get(ctx, bundleCacheKey(fp)); ok {
		var cached models.BundleResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		e.log.Warn("hot cache bundle entry unreadable, recomputing")
	}

	flightOpts, hotelOpts, carOpts := e.fanOut(ctx, req)

	candidates := e.enumerate(req, flightOpts, hotelOpts, carOpts)

	topDeals, err := e.deals.TopDeals(ctx, req.Destination, dealOverlayK)
	if err != nil {
		e.log.WithError(err).Warn("deal overlay lookup failed, proceeding without overlay")
		topDeals = nil
	}
	for i := range candidates {
		e.overlayDeal(&candidates[i], topDeals)
		e.scoreFit(&candidates[i], req)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FitScore > candidates[j].FitScore
	})
	if len(candidates) > e.bundleLimit {
		candidates = candidates[:e.bundleLimit]
	}
	for i := range candidates {
		candidates[i].BundleID = uuid.NewString()
	}

	resp := models.BundleResponse{SearchID: uuid.NewString(), Bundles: candidates}

	if data, err := json.Marshal(resp); err == nil {
		if err := e.cache.Set(ctx, bundleCacheKey(fp), data, bundleCacheTTL); err != nil {
			e.log.WithError(err).Warn("failed to cache bundle response, degrading to uncached")
		}
	}

	e.persist(ctx, resp, userID)

	return resp, nil
}

// fanOut concurrently requests all three upstream components, each
// allocated its share of the request budget; the engine proceeds once all
// three have produced at least one option (each client already guarantees
// this via its own fallback).
func (e *Engine) fanOut(ctx context.Context, req models.BundleRequest) ([]models.FlightOption, []models.HotelOption, []models.CarOption) {
	var retDate *string
	if req.ReturnDate != nil {
		s := req.ReturnDate.UTC().Format("2006-01-02")
		retDate = &s
	}
	sreq := models.SearchRequest{
		Destination:   req.Destination,
		Origin:        req.Origin,
		DepartureDate: req.DepartureDate.UTC().Format("2006-01-02"),
		ReturnDate:    retDate,
		Budget:        req.Budget,
		Preferences:   req.Preferences,
		Constraints:   req.Constraints,
	}

	var (
		wg                          sync.WaitGroup
		flightOpts                  []models.FlightOption
		hotelOpts                   []models.HotelOption
		carOpts                     []models.CarOption
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		flightOpts = e.flights.SearchFlights(ctx, sreq, flightBudgetShare)
	}()
	go func() {
		defer wg.Done()
		hotelOpts = e.hotels.SearchHotels(ctx, sreq, hotelBudgetShare)
	}()
	go func() {
		defer wg.Done()
		carOpts = e.cars.SearchCars(ctx, sreq, carBudgetShare)
	}()
	wg.Wait()
	return flightOpts, hotelOpts, carOpts
}

// enumerate forms the Cartesian product of the first 3 flights, 3 hotels,
// and 2 cars (already ranked by the upstream), pricing each candidate.
func (e *Engine) enumerate(req models.BundleRequest, flights []models.FlightOption, hotels []models.HotelOption, cars []models.CarOption) []models.Bundle {
	flights = truncate(flights, maxFlightCandidates)
	hotels = truncate(hotels, maxHotelCandidates)
	cars = truncate(cars, maxCarCandidates)

	nights := req.Nights()
	validUntil := req.DepartureDate.AddDate(0, 0, -1)

	var candidates []models.Bundle
	for _, f := range flights {
		for _, h := range hotels {
			for _, c := range cars {
				hotelTotal := h.PricePerNight * float64(nights)
				carTotal := c.DailyPrice * float64(maxInt(nights, 1))
				total := f.Price + hotelTotal + carTotal
				baseline := 1.15 * total
				savings := baseline - total
				if savings < 0 {
					savings = 0
				}

				candidates = append(candidates, models.Bundle{
					Destination: req.Destination,
					TotalPrice:  round2(total),
					Savings:     round2(savings),
					ValidUntil:  validUntil,
					Components: []models.BundleComponent{
						{
							Type:    models.ComponentFlight,
							Summary: fmt.Sprintf("%s %s to %s", f.Airline, f.FlightNo, req.Destination),
							Price:   round2(f.Price),
							Metadata: map[string]interface{}{
								"airline": f.Airline, "flight_no": f.FlightNo,
								"origin": f.Origin, "departure": f.Departure,
								"class": f.Class, "red_eye": f.RedEye,
							},
						},
						{
							Type:    models.ComponentHotel,
							Summary: h.Name,
							Price:   round2(hotelTotal),
							Metadata: map[string]interface{}{
								"name": h.Name, "star_rating": h.StarRating,
								"price_per_night": h.PricePerNight, "nights": nights,
								"amenities": h.Amenities, "pet_friendly": h.PetFriendly,
							},
						},
						{
							Type:    models.ComponentCar,
							Summary: fmt.Sprintf("%s %s", c.Vendor, c.Category),
							Price:   round2(carTotal),
							Metadata: map[string]interface{}{
								"vendor": c.Vendor, "category": c.Category,
								"daily_price": c.DailyPrice,
							},
						},
					},
				})
			}
		}
	}
	return candidates
}

// overlayDeal matches at most one applicable cached deal against bundle,
// score-descending. Matches against Deal.Type directly rather than a
// double-encoded payload field, for an unambiguous comparison.
func (e *Engine) overlayDeal(b *models.Bundle, deals []models.Deal) {
	hotel := componentByType(b, models.ComponentHotel)
	flight := componentByType(b, models.ComponentFlight)

	for _, d := range deals {
		switch d.Type {
		case models.DealHotel:
			if hotel == nil {
				continue
			}
			name, _ := hotel.Metadata["name"].(string)
			if name == "" || !strings.Contains(strings.ToLower(d.Summary), strings.ToLower(name)) {
				continue
			}
			b.Savings += d.Price.Discount()
			applyDealBonus(b, d, fmt.Sprintf("Hotel deal: %s", d.Summary))
			return
		case models.DealFlight:
			if flight == nil {
				continue
			}
			origin, _ := flight.Metadata["origin"].(string)
			if origin == "" || !strings.Contains(strings.ToLower(d.Summary), strings.ToLower(origin)) {
				continue
			}
			b.Savings += d.Price.Discount()
			applyDealBonus(b, d, fmt.Sprintf("Flight deal: %s", d.Summary))
			return
		}
	}
	b.Explanation = "Balanced itinerary with matched preferences"
}

func applyDealBonus(b *models.Bundle, d models.Deal, explanation string) {
	bonus := d.Score / 2
	if bonus > 25 {
		bonus = 25
	}
	b.Savings = round2(b.Savings)
	b.Explanation = explanation
	setDealBonus(b, bonus)
}

// scoreFit computes the lerp'd budget score, the star-rating match score,
// and combines them with any deal bonus already stashed by overlayDeal,
// soft-capping the total at 100 since the constituent scores can undershoot
// but should never be renormalized above it.
func (e *Engine) scoreFit(b *models.Bundle, req models.BundleRequest) {
	budgetDelta := req.Budget - b.TotalPrice
	if budgetDelta < 0 {
		budgetDelta = 0
	}
	budgetScore := lerp(budgetDelta, 0, req.Budget, 10, 35)

	hotelScore := 10.0
	if hotel := componentByType(b, models.ComponentHotel); hotel != nil {
		if rating, ok := hotel.Metadata["star_rating"].(int); ok && req.Preferences.HasStarRating(rating) {
			hotelScore = 25
		}
	}

	bonus := dealBonus(b)
	fit := budgetScore + hotelScore + bonus
	if fit > 100 {
		fit = 100
	}
	b.FitScore = round2(fit)
}

func (e *Engine) persist(ctx context.Context, resp models.BundleResponse, userID string) {
	if userID == "" {
		return
	}
	for _, b := range resp.Bundles {
		rec := store.BundleRecord{
			BundleID:    b.BundleID,
			UserID:      userID,
			SearchID:    resp.SearchID,
			Destination: b.Destination,
			TotalPrice:  b.TotalPrice,
			Savings:     b.Savings,
			FitScore:    b.FitScore,
			Explanation: b.Explanation,
			ValidUntil:  b.ValidUntil,
			Components:  store.EncodeComponents(b.Components),
			CreatedAt:   time.Now().UTC(),
		}
		if err := e.store.SaveBundle(rec); err != nil {
			e.log.WithError(err).Warn("failed to persist bundle, degrading to compute-only")
		}
	}

	if data, err := json.Marshal(resp); err == nil {
		key := fmt.Sprintf("bundles:%s:%s", userID, resp.SearchID)
		if err := e.cache.Set(ctx, key, data, userBundlesCacheTTL); err != nil {
			e.log.WithError(err).Warn("failed to cache user bundle response")
		}
	}
}

func componentByType(b *models.Bundle, t models.ComponentType) *models.BundleComponent {
	for i := range b.Components {
		if b.Components[i].Type == t {
			return &b.Components[i]
		}
	}
	return nil
}

// dealBonus/setDealBonus stash the deal_bonus in the first component's
// metadata rather than as a first-class Bundle field, since it is an
// intermediate scoring input; it still travels with the serialized
// components in responses and persisted records.
const dealBonusMetaKey = "_deal_bonus"

func setDealBonus(b *models.Bundle, bonus float64) {
	if len(b.Components) == 0 {
		return
	}
	if b.Components[0].Metadata == nil {
		b.Components[0].Metadata = map[string]interface{}{}
	}
	b.Components[0].Metadata[dealBonusMetaKey] = bonus
}

func dealBonus(b *models.Bundle) float64 {
	if len(b.Components) == 0 {
		return 0
	}
	if v, ok := b.Components[0].Metadata[dealBonusMetaKey].(float64); ok {
		return v
	}
	return 0
}

// lerp clamps x to [inLo, inHi] and linearly maps it onto [outLo, outHi].
func lerp(x, inLo, inHi, outLo, outHi float64) float64 {
	if inHi <= inLo {
		return outLo
	}
	if x < inLo {
		x = inLo
	}
	if x > inHi {
		x = inHi
	}
	t := (x - inLo) / (inHi - inLo)
	return outLo + t*(outHi-outLo)
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
