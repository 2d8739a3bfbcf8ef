package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iaros/concierge/internal/models"
)

const dealsListLimit = 20

type flattenedDeal struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	OriginalPrice      float64  `json:"originalPrice"`
	DiscountedPrice    float64  `json:"discountedPrice"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Destination        string   `json:"destination"`
	ExpiresAt          string   `json:"expiresAt"`
	Score              float64  `json:"score"`
	Tags               []string `json:"tags"`
}

// handleListDeals implements GET /concierge/deals?destination=….
// Reads the tag set once per deal, collapsing the source's flagged
// double-read of the same field.
func (s *Server) handleListDeals(c *gin.Context) {
	destination := c.Query("destination")
	deals, err := s.deals.TopDeals(c.Request.Context(), destination, dealsListLimit)
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]flattenedDeal, 0, len(deals))
	for _, d := range deals {
		out = append(out, flatten(d))
	}
	ok(c, http.StatusOK, gin.H{"deals": out})
}

func flatten(d models.Deal) flattenedDeal {
	return flattenedDeal{
		ID:                 d.DealID,
		Type:               string(d.Type),
		Title:              d.Summary,
		Description:        d.Summary,
		OriginalPrice:      d.Price.Original,
		DiscountedPrice:    d.Price.Deal,
		DiscountPercentage: d.Price.DiscountPercent,
		Destination:        d.Destination,
		ExpiresAt:          d.ValidUntil.Format("2006-01-02T15:04:05Z07:00"),
		Score:              d.Score,
		Tags:               d.Tags,
	}
}
