package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/concierge/internal/logging"
	"github.com/iaros/concierge/internal/models"
)

func testLogger() *logging.Logger {
	return logging.New(logging.Config{Service: "test", Level: "error"})
}

func TestSearchHotelsFallsBackOn500(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Hotels, server.URL, time.Second, testLogger())
	req := models.SearchRequest{Destination: "LAX", Budget: 1000}

	opts := c.SearchHotels(context.Background(), req, hotelBudgetShareForTest)
	require.Len(t, opts, 1)
	assert.Equal(t, "Kayak Grand", opts[0].Name)
	assert.LessOrEqual(t, opts[0].PricePerNight, 280.0)
}

func TestSearchFlightsReturnsUpstreamOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"flights":[{"airline":"Test Air","price":320}]}}`))
	}))
	defer server.Close()

	c := NewClient(Flights, server.URL, time.Second, testLogger())
	req := models.SearchRequest{Destination: "LAX", Budget: 1200}

	opts := c.SearchFlights(context.Background(), req, 0.4)
	require.Len(t, opts, 1)
	assert.Equal(t, "Test Air", opts[0].Airline)
	assert.Equal(t, 320.0, opts[0].Price)
}

func TestSearchHotelsFallbackNameIsFixedAcrossDestinations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Hotels, server.URL, time.Second, testLogger())

	for _, dest := range []string{"LAX", "JFK", "CDG", "NRT"} {
		req := models.SearchRequest{Destination: dest, Budget: 1000}
		opts := c.SearchHotels(context.Background(), req, hotelBudgetShareForTest)
		require.Len(t, opts, 1)
		assert.Equal(t, "Kayak Grand", opts[0].Name)
	}
}

const hotelBudgetShareForTest = 0.4
