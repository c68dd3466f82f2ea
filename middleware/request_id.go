package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitecms/api/logging"
	"sitecms/api/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, logs it, and records its latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))

		started := time.Now()
		c.Next()
		took := time.Since(started)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(took.Seconds())

		logging.Ctx(c.Request.Context()).Info().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("took", took).
			Str("client_ip", c.ClientIP()).
			Msg("request handled")
	}
}
