package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"shopsync/internal/logger"
	"shopsync/internal/metrics"
)

// Logger writes one access line per request and records request metrics.
func Logger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, route, status, latency)

		logger.Printf("[%s] %s %s %d %s %s",
			start.Format(time.RFC3339),
			c.Request.Method,
			c.Request.URL.Path,
			status,
			latency,
			c.ClientIP(),
		)
	}
}
