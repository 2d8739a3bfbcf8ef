package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iaros/concierge/internal/intent"
	"github.com/iaros/concierge/internal/models"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	UserID  string `json:"user_id"`
}

// handleChat implements POST /concierge/chat: delegate to the external
// intent extractor, reconstruct a BundleRequest, then call generate. If
// destination or departure_date cannot be extracted, respond
// success=true with the partial intent rather than an error.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	extracted, err := s.intent.Extract(c.Request.Context(), req.Message)
	if err != nil {
		ok(c, http.StatusOK, gin.H{"error": err.Error(), "extracted_intent": extracted})
		return
	}
	if extracted.Destination == nil || extracted.DepartureDate == nil {
		ok(c, http.StatusOK, gin.H{"error": "could not extract destination and departure date", "extracted_intent": extracted})
		return
	}

	bundleReq, err := reconstructRequest(extracted)
	if err != nil {
		ok(c, http.StatusOK, gin.H{"error": err.Error(), "extracted_intent": extracted})
		return
	}

	resp, err := s.engine.Generate(c.Request.Context(), bundleReq, req.UserID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// reconstructRequest builds a BundleRequest from extracted intent,
// preferring an extractor-supplied return_date over the engine's own
// +3-day extrapolation: the reconstruction should not discard a return
// date the extractor found.
func reconstructRequest(e intent.Extracted) (models.BundleRequest, error) {
	dep, err := time.Parse("2006-01-02", *e.DepartureDate)
	if err != nil {
		return models.BundleRequest{}, err
	}

	req := models.BundleRequest{
		Destination:   *e.Destination,
		DepartureDate: dep,
		Budget:        1000,
	}
	if e.Origin != nil {
		req.Origin = *e.Origin
	}
	if e.Budget != nil {
		req.Budget = *e.Budget
	}
	if e.ReturnDate != nil {
		if ret, err := time.Parse("2006-01-02", *e.ReturnDate); err == nil {
			req.ReturnDate = &ret
		}
	}
	return req, nil
}
