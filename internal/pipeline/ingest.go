package pipeline

import (
	"math/rand"
	"os"
	"sort"
	"strconv"

	"github.com/gocarina/gocsv"
)

const syntheticRecordsPerSource = 50

// airbnbListingRow mirrors one line of an Airbnb listings export.
type airbnbListingRow struct {
	ID           string  `csv:"id"`
	Neighborhood string  `csv:"neighborhood"`
	Destination  string  `csv:"destination"`
	PricePerNight float64 `csv:"price"`
}

// flightPriceRow mirrors one line of a flight price export.
type flightPriceRow struct {
	ID          string  `csv:"id"`
	Route       string  `csv:"route"`
	Destination string  `csv:"destination"`
	Price       float64 `csv:"price"`
}

// hotelBookingRow mirrors one line of a hotel booking export.
type hotelBookingRow struct {
	ID          string  `csv:"id"`
	HotelName   string  `csv:"hotel_name"`
	Destination string  `csv:"destination"`
	Price       float64 `csv:"price"`
}

// ingestAirbnb mines deal candidates from an Airbnb listings CSV: the
// baseline is the neighborhood mean price, and a listing qualifies if its
// price is at least 15% below that baseline.
func ingestAirbnb(path string) []rawCandidate {
	rows, ok := readCSV[airbnbListingRow](path)
	if !ok {
		return syntheticCandidates("hotel", "airbnb-synth")
	}

	byNeighborhood := map[string][]airbnbListingRow{}
	for _, r := range rows {
		byNeighborhood[r.Neighborhood] = append(byNeighborhood[r.Neighborhood], r)
	}

	var out []rawCandidate
	for _, group := range byNeighborhood {
		mean := meanPrice(group, func(r airbnbListingRow) float64 { return r.PricePerNight })
		threshold := mean * 0.85
		for _, r := range group {
			if r.PricePerNight <= threshold && r.PricePerNight > 0 {
				out = append(out, rawCandidate{
					referenceID: r.ID,
					dealType:    "hotel",
					destination: r.Destination,
					summary:     "Airbnb listing in " + r.Neighborhood,
					original:    mean,
					deal:        r.PricePerNight,
				})
			}
		}
	}
	return out
}

// ingestFlightPrices mines deal candidates from a flight price CSV:
// qualifying rows sit in the bottom 30th percentile of price, ranked
// within the whole file.
func ingestFlightPrices(path string) []rawCandidate {
	rows, ok := readCSV[flightPriceRow](path)
	if !ok {
		return syntheticCandidates("flight", "flight-synth")
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Price < rows[j].Price })
	cutoff := percentileIndex(len(rows), 0.30)

	var out []rawCandidate
	baseline := meanPrice(rows, func(r flightPriceRow) float64 { return r.Price })
	for i, r := range rows {
		if i >= cutoff {
			break
		}
		route := r.Route
		out = append(out, rawCandidate{
			referenceID: r.ID,
			dealType:    "flight",
			destination: r.Destination,
			summary:     "Flight deal on route " + r.Route,
			original:    baseline,
			deal:        r.Price,
			route:       &route,
		})
	}
	return out
}

// ingestHotelBookings mines deal candidates from a hotel booking CSV: the
// bottom 35th percentile of price, ranked within the whole file.
func ingestHotelBookings(path string) []rawCandidate {
	rows, ok := readCSV[hotelBookingRow](path)
	if !ok {
		return syntheticCandidates("hotel", "hotel-synth")
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Price < rows[j].Price })
	cutoff := percentileIndex(len(rows), 0.35)

	var out []rawCandidate
	baseline := meanPrice(rows, func(r hotelBookingRow) float64 { return r.Price })
	for i, r := range rows {
		if i >= cutoff {
			break
		}
		out = append(out, rawCandidate{
			referenceID: r.ID,
			dealType:    "hotel",
			destination: r.Destination,
			summary:     "Hotel booking deal at " + r.HotelName,
			original:    baseline,
			deal:        r.Price,
		})
	}
	return out
}

// ingestOperationalInventory samples up to 100 available flights and 100
// available hotel rooms, converting each into a candidate with the
// configured probability and a discount factor uniform over the band.
func ingestOperationalInventory(st Store) []rawCandidate {
	var out []rawCandidate

	flights, err := st.SampleAvailableFlights(100)
	if err == nil {
		for _, f := range flights {
			if rand.Float64() >= 0.3 {
				continue
			}
			discount := 0.15 + rand.Float64()*0.25 // 15%-40% band
			route := f.Route
			out = append(out, rawCandidate{
				referenceID:   f.Route,
				dealType:      "flight",
				destination:   f.Destination,
				summary:       "Operational flight inventory on " + f.Route,
				original:      f.Price,
				deal:          f.Price * (1 - discount),
				departureTime: &f.DepartureTime,
				seatCount:     &f.SeatCount,
				changeableFee: f.Changeable,
				route:         &route,
			})
		}
	}

	rooms, err := st.SampleAvailableHotelRooms(100)
	if err == nil {
		for _, r := range rooms {
			if rand.Float64() >= 0.4 {
				continue
			}
			discount := 0.10 + rand.Float64()*0.30 // 10%-40% band
			out = append(out, rawCandidate{
				referenceID: r.HotelName,
				dealType:    "hotel",
				destination: r.Destination,
				summary:     "Operational hotel inventory at " + r.HotelName,
				original:    r.PricePerNight,
				deal:        r.PricePerNight * (1 - discount),
			})
		}
	}

	return out
}

// syntheticCandidates fabricates a deterministic-structure batch when a
// CSV source file is absent, so the pipeline still has a source of
// candidates in a demo or test deployment.
func syntheticCandidates(dealType, prefix string) []rawCandidate {
	out := make([]rawCandidate, 0, syntheticRecordsPerSource)
	destinations := []string{"LAX", "JFK", "MIA", "SEA", "DEN"}
	for i := 0; i < syntheticRecordsPerSource; i++ {
		original := 100.0 + float64(i%10)*25
		deal := original * 0.7
		out = append(out, rawCandidate{
			referenceID: prefix + "-" + strconv.Itoa(i),
			dealType:    dealType,
			destination: destinations[i%len(destinations)],
			summary:     "Synthesized " + dealType + " deal",
			original:    original,
			deal:        deal,
		})
	}
	return out
}

func readCSV[T any](path string) ([]T, bool) {
	if path == "" {
		return nil, false
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func meanPrice[T any](rows []T, price func(T) float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rows {
		sum += price(r)
	}
	return sum / float64(len(rows))
}

func percentileIndex(n int, pct float64) int {
	idx := int(float64(n) * pct)
	if idx < 1 && n > 0 {
		idx = 1
	}
	return idx
}

