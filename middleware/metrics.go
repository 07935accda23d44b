package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/monitor"
)

// RequestMetrics records request counts and latency labelled by the matched route.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		monitor.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
