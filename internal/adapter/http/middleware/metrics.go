package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics receives one observation per inbound request.
type HTTPMetrics interface {
	RecordRequest(endpoint, method string, statusCode int, duration time.Duration)
}

// Metrics records request count and latency keyed by the matched route.
func Metrics(m HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordRequest(endpoint, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
