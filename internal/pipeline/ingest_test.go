package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestIngestAirbnbFallsBackToSyntheticWhenPathEmpty(t *testing.T) {
	out := ingestAirbnb("")
	assert.Len(t, out, syntheticRecordsPerSource)
	assert.Equal(t, "hotel", out[0].dealType)
}

func TestIngestAirbnbMinesBelowNeighborhoodMean(t *testing.T) {
	csv := "id,neighborhood,destination,price\n" +
		"1,SoMa,SFO,100\n" +
		"2,SoMa,SFO,200\n" +
		"3,SoMa,SFO,60\n"
	path := writeTempCSV(t, "listings.csv", csv)

	// mean is 120, so the threshold is 102: listings 1 (100) and 3 (60) qualify.
	out := ingestAirbnb(path)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].referenceID)
	assert.Equal(t, "3", out[1].referenceID)
	assert.Equal(t, 60.0, out[1].deal)
}

func TestIngestFlightPricesTakesBottomPercentile(t *testing.T) {
	csv := "id,route,destination,price\n" +
		"1,SFO-LAX,LAX,500\n" +
		"2,SFO-LAX,LAX,100\n" +
		"3,SFO-LAX,LAX,200\n" +
		"4,SFO-LAX,LAX,300\n" +
		"5,SFO-LAX,LAX,400\n" +
		"6,SFO-LAX,LAX,600\n" +
		"7,SFO-LAX,LAX,700\n" +
		"8,SFO-LAX,LAX,800\n" +
		"9,SFO-LAX,LAX,900\n" +
		"10,SFO-LAX,LAX,1000\n"
	path := writeTempCSV(t, "flights.csv", csv)

	out := ingestFlightPrices(path)
	require.Len(t, out, 3) // bottom 30th percentile of 10 rows
	assert.Equal(t, 100.0, out[0].deal)
}

func TestIngestHotelBookingsFallsBackToSyntheticWhenUnreadable(t *testing.T) {
	out := ingestHotelBookings(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Len(t, out, syntheticRecordsPerSource)
}

func TestDealIDKeysByTypeAndReference(t *testing.T) {
	assert.Equal(t, "flight:abc", dealID("abc", "flight"))
}

func TestClampScoreSoftCaps(t *testing.T) {
	assert.Equal(t, 100.0, clampScore(140))
	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 72.5, clampScore(72.5))
}
