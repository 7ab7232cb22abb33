package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/linkbio/backend/internal/metrics"
)

// unmatchedRoute is logged for requests that matched no route.
const unmatchedRoute = "unmatched"

// routePath returns the route template of the request. Raw paths are never
// logged since path params such as /users/verify/:token carry tokens.
func routePath(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

// RequestLogger logs one line per request, keyed by route template.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", routePath(c),
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			logger.Error("request", attrs...)
		case status >= 400:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}

// Metrics records request counts and latencies by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
