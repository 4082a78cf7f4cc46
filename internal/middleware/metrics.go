package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skylinehq/skyline/api/internal/metrics"
)

// Metrics creates a middleware that records request count, duration, and
// in-flight gauge for every request. The route template (not the raw URL)
// is used as the path label to keep cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.Observe(c.Request.Method, path, c.Writer.Status(), time.Since(start).Seconds())
	}
}
