package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sitecms/api/analytics"
	"sitecms/api/logging"
	"sitecms/api/metrics"
	"sitecms/api/middleware"
	"sitecms/api/models"
	"sitecms/api/store"
)

// maxTrackBatch bounds how many records one POST /api/track may carry.
const maxTrackBatch = 100

type ActivityHandlers struct {
	Log       store.ActivityLog
	Analytics *analytics.Service
}

func NewActivityHandlers(log store.ActivityLog, svc *analytics.Service) *ActivityHandlers {
	return &ActivityHandlers{Log: log, Analytics: svc}
}

// TrackEvent appends interaction records sent by the public site. The client
// address and user agent come from the request, never from the body.
func (h *ActivityHandlers) TrackEvent(c *gin.Context) {
	var incoming []models.TrackRequest
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if len(incoming) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	if len(incoming) > maxTrackBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Too many events in one request"})
		return
	}

	var userID *int64
	if id, ok := c.Get(middleware.ContextAdminID); ok {
		if v, ok := id.(int64); ok {
			userID = &v
		}
	}

	events := make([]models.Event, 0, len(incoming))
	for _, req := range incoming {
		events = append(events, models.Event{
			Action:       req.Action,
			ResourceType: req.ResourceType,
			ResourceID:   req.ResourceID,
			UserID:       userID,
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	stored, err := h.Log.Append(ctx, events)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("events", len(events)).Msg("failed to record activity events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity events"})
		return
	}

	for _, e := range stored {
		metrics.EventsTracked.WithLabelValues(e.Action).Inc()
	}
	h.Analytics.EventsRecorded(ctx, stored)
	c.JSON(http.StatusAccepted, gin.H{"recorded": len(stored)})
}
