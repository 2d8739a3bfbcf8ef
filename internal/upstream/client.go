package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
)

// Component names one of the three inventory upstreams.
type Component string

const (
	Flights Component = "flights"
	Hotels  Component = "hotels"
	Cars    Component = "cars"
)

// Client performs a search call against one upstream component, with
// retry-then-circuit-break, falling back to a synthetic option set when
// every attempt is exhausted.
type Client struct {
	component Component
	http      *resty.Client
	breaker   *gobreaker.CircuitBreaker
	retry     RetryPolicy
	log       *logging.Logger
}

// NewClient builds a Client for one upstream component.
func NewClient(component Component, baseURL string, timeout time.Duration, log *logging.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("upstream_%s", component),
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("upstream circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		component: component,
		http:      httpClient,
		breaker:   breaker,
		retry:     DefaultRetryPolicy,
		log:       log,
	}
}

// call wraps one upstream POST in the retry policy and then the circuit
// breaker, following gds_service.go's retry-then-circuit-break ordering:
// retries absorb transient failures, the breaker trips on sustained ones.
func (c *Client) call(ctx context.Context, path string, req models.SearchRequest, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.retry.Do(ctx, func() error {
			resp, err := c.http.R().
				SetContext(ctx).
				SetBody(req).
				SetResult(out).
				Post(path)
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("upstream %s returned %s", c.component, resp.Status())
			}
			return nil
		})
	})
	return err
}

// SearchFlights requests flight options for the given budget share,
// falling back to a single synthetic option when every retry and the
// breaker are exhausted, so a fan-out never comes back empty-handed.
func (c *Client) SearchFlights(ctx context.Context, req models.SearchRequest, budgetShare float64) []models.FlightOption {
	var out models.FlightSearchResponse
	if err := c.call(ctx, "/flights/search", req, &out); err != nil {
		c.log.Warn("flights upstream exhausted, using fallback option", zap.Error(err))
		return []models.FlightOption{fallbackFlight(req, budgetShare)}
	}
	if len(out.Data.Flights) == 0 {
		return []models.FlightOption{fallbackFlight(req, budgetShare)}
	}
	return out.Data.Flights
}

// SearchHotels requests hotel options, with the same fallback discipline.
func (c *Client) SearchHotels(ctx context.Context, req models.SearchRequest, budgetShare float64) []models.HotelOption {
	var out models.HotelSearchResponse
	if err := c.call(ctx, "/hotels/search", req, &out); err != nil {
		c.log.Warn("hotels upstream exhausted, using fallback option", zap.Error(err))
		return []models.HotelOption{fallbackHotel(req, budgetShare)}
	}
	if len(out.Data.Hotels) == 0 {
		return []models.HotelOption{fallbackHotel(req, budgetShare)}
	}
	return out.Data.Hotels
}

// SearchCars requests car rental options, with the same fallback discipline.
func (c *Client) SearchCars(ctx context.Context, req models.SearchRequest, budgetShare float64) []models.CarOption {
	var out models.CarSearchResponse
	if err := c.call(ctx, "/cars/search", req, &out); err != nil {
		c.log.Warn("cars upstream exhausted, using fallback option", zap.Error(err))
		return []models.CarOption{fallbackCar(req, budgetShare)}
	}
	if len(out.Data.Cars) == 0 {
		return []models.CarOption{fallbackCar(req, budgetShare)}
	}
	return out.Data.Cars
}

// Fallback names are fixed, not varied: every synthetic option is
// attributed to "Kayak" so a degraded bundle is recognizable as such
// regardless of destination.
const (
	fallbackAirlineName = "Kayak Airways"
	fallbackHotelName   = "Kayak Grand"
	fallbackVendorName  = "Kayak Rentals"
)

func fallbackFlight(req models.SearchRequest, budgetShare float64) models.FlightOption {
	price := req.Budget * budgetShare
	if price > req.Budget*0.45 {
		price = req.Budget * 0.45
	}
	return models.FlightOption{
		Airline:   fallbackAirlineName,
		FlightNo:  "FB100",
		Origin:    req.Origin,
		Departure: req.DepartureDate,
		Price:     round2(price),
		Class:     "economy",
		RedEye:    false,
	}
}

func fallbackHotel(req models.SearchRequest, budgetShare float64) models.HotelOption {
	price := req.Budget * budgetShare
	if price > 280 {
		price = 280
	}
	return models.HotelOption{
		Name:          fallbackHotelName,
		StarRating:    3,
		PricePerNight: round2(price),
		Amenities:     []string{"wifi"},
		PetFriendly:   false,
	}
}

func fallbackCar(req models.SearchRequest, budgetShare float64) models.CarOption {
	price := req.Budget * budgetShare
	if price > req.Budget*0.2 {
		price = req.Budget * 0.2
	}
	return models.CarOption{
		Vendor:     fallbackVendorName,
		Category:   "economy",
		DailyPrice: round2(price),
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
