package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/concierge/internal/models"
)

func TestFlattenReadsTagsOnce(t *testing.T) {
	d := models.Deal{
		DealID:      "hotel:1",
		Type:        models.DealHotel,
		Summary:     "Spring sale",
		Destination: "LAX",
		Price:       models.NewPrice(200, 150),
		Score:       72,
		Tags:        []string{"flash_deal", "top_pick"},
		ValidUntil:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	flat := flatten(d)
	assert.Equal(t, "hotel:1", flat.ID)
	assert.Equal(t, []string{"flash_deal", "top_pick"}, flat.Tags)
	assert.Equal(t, 150.0, flat.DiscountedPrice)
	assert.Equal(t, "2026-08-01T00:00:00Z", flat.ExpiresAt)
}

func TestBundleRequestDTOToModelParsesDates(t *testing.T) {
	ret := "2026-08-05"
	dto := bundleRequestDTO{
		Destination:   "LAX",
		DepartureDate: "2026-08-01",
		ReturnDate:    &ret,
		Budget:        1200,
	}
	req, err := dto.toModel()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), req.DepartureDate)
	require.NotNil(t, req.ReturnDate)
	assert.Equal(t, time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC), *req.ReturnDate)
}

func TestBundleRequestDTOToModelRejectsBadDepartureDate(t *testing.T) {
	dto := bundleRequestDTO{Destination: "LAX", DepartureDate: "not-a-date", Budget: 1200}
	_, err := dto.toModel()
	assert.Error(t, err)
}

func TestBundleRequestDTOToModelRejectsBadReturnDate(t *testing.T) {
	ret := "not-a-date"
	dto := bundleRequestDTO{Destination: "LAX", DepartureDate: "2026-08-01", ReturnDate: &ret, Budget: 1200}
	_, err := dto.toModel()
	assert.Error(t, err)
}
