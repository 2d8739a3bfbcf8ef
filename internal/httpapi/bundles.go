package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iaros/concierge/internal/apperror"
	"github.com/iaros/concierge/internal/models"
)

type bundleRequestDTO struct {
	Origin        string             `json:"origin"`
	Destination   string             `json:"destination" binding:"required"`
	DepartureDate string             `json:"departure_date" binding:"required"`
	ReturnDate    *string            `json:"return_date"`
	Budget        float64            `json:"budget" binding:"required"`
	Preferences   models.Preferences `json:"preferences"`
	Constraints   models.Constraints `json:"constraints"`
}

func (d bundleRequestDTO) toModel() (models.BundleRequest, error) {
	dep, err := time.Parse("2006-01-02", d.DepartureDate)
	if err != nil {
		return models.BundleRequest{}, apperror.Validation("generate", "departure_date must be YYYY-MM-DD")
	}
	req := models.BundleRequest{
		Origin:        d.Origin,
		Destination:   d.Destination,
		DepartureDate: dep,
		Budget:        d.Budget,
		Preferences:   d.Preferences,
		Constraints:   d.Constraints,
	}
	if d.ReturnDate != nil {
		ret, err := time.Parse("2006-01-02", *d.ReturnDate)
		if err != nil {
			return models.BundleRequest{}, apperror.Validation("generate", "return_date must be YYYY-MM-DD")
		}
		req.ReturnDate = &ret
	}
	return req, nil
}

// handleGenerateBundle implements POST /concierge/bundles?user_id=….
func (s *Server) handleGenerateBundle(c *gin.Context) {
	var dto bundleRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	req, err := dto.toModel()
	if err != nil {
		failErr(c, err)
		return
	}

	userID := c.Query("user_id")
	resp, err := s.engine.Generate(c.Request.Context(), req, userID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// handleBundlesForUser implements GET /concierge/bundles/user/{user_id}.
func (s *Server) handleBundlesForUser(c *gin.Context) {
	userID := c.Param("user_id")
	const limit = 10
	bundles, err := s.deals.BundlesForUser(c.Request.Context(), userID, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	total := 0
	for _, b := range bundles {
		total += len(b.Bundles)
	}
	ok(c, http.StatusOK, gin.H{"bundles": bundles, "totalResults": total})
}
