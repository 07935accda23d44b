package middleware

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/common/graceful"
)

// TrackInFlight counts requests for shutdown draining and turns new ones away once draining starts.
func TrackInFlight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if graceful.IsDraining() {
			c.Header("Connection", "close")
			AbortWithError(c, http.StatusServiceUnavailable, errors.New("server is shutting down"))
			return
		}
		done := graceful.BeginRequest()
		defer done()
		c.Next()
	}
}
