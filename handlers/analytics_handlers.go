package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sitecms/api/analytics"
	"sitecms/api/logging"
	"sitecms/api/utils"
)

// maxTopN caps the limit query parameter.
const maxTopN = 100

type AnalyticsHandlers struct {
	Service *analytics.Service
	// Now is the clock used to resolve relative ranges.
	Now func() time.Time
}

func NewAnalyticsHandlers(svc *analytics.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{Service: svc, Now: time.Now}
}

// GetSummary serves the dashboard's engagement summary.
//
//	GET /api/stats/summary?range=7d
//	GET /api/stats/summary?start=2025-01-01T00:00:00Z&end=2025-01-31T23:59:59Z&resource_id=42&per_resource=true&limit=5
func (h *AnalyticsHandlers) GetSummary(c *gin.Context) {
	r, err := analytics.ParseRange(c.Query("range"), c.Query("start"), c.Query("end"), h.Now())
	if err != nil {
		writeAnalyticsError(c, err)
		return
	}
	resourceID, err := utils.ParseOptionalID(c.Query("resource_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'resource_id' parameter", "details": err.Error()})
		return
	}
	limit, err := utils.ParseLimit(c.Query("limit"), maxTopN)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer.", "details": err.Error()})
		return
	}

	summary, err := h.Service.Summary(c.Request.Context(), analytics.Query{
		Range:              r,
		ResourceID:         resourceID,
		TopN:               limit,
		IncludePerResource: utils.ParseBool(c.Query("per_resource")),
	})
	if err != nil {
		writeAnalyticsError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetSessions lists the sessions reconstructed for a window, for debugging the dashboard numbers.
func (h *AnalyticsHandlers) GetSessions(c *gin.Context) {
	r, err := analytics.ParseRange(c.Query("range"), c.Query("start"), c.Query("end"), h.Now())
	if err != nil {
		writeAnalyticsError(c, err)
		return
	}
	listing, err := h.Service.Sessions(c.Request.Context(), r)
	if err != nil {
		writeAnalyticsError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func writeAnalyticsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "retryable": false})
	case errors.Is(err, analytics.ErrSourceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analytics data is temporarily unavailable", "retryable": true})
	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads the body.
		c.Status(499)
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("analytics request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
	}
}
