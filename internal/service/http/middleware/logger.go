package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"github.com/reusedev/render-relay/internal/modules/metrics"
)

// RequestLogger writes one line per request and feeds the HTTP metrics.
func RequestLogger(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		clientIP := c.ClientIP()

		c.Next()

		statusCode := c.Writer.Status()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordHTTPRequest(method, route, statusCode, duration)

		logs.FromContext(c.Request.Context()).Info().Str("method", method).
			Str("path", path).
			Str("client_ip", clientIP).
			Int("status", statusCode).
			Dur("duration", duration).
			Msg("request log")
	}
}
