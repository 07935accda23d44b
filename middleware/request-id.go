package middleware

import (
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/common/helper"
)

// maxInboundRequestIdLength caps client supplied request ids.
const maxInboundRequestIdLength = 64

// RequestId tags the request with an id, reusing a sane inbound one, and adds it to the request logger.
func RequestId() func(c *gin.Context) {
	return func(c *gin.Context) {
		id := c.GetHeader(helper.RequestIdKey)
		if id == "" || len(id) > maxInboundRequestIdLength {
			id = helper.GenRequestID()
		}
		c.Set(helper.RequestIdKey, id)
		c.Header(helper.RequestIdKey, id)
		gmw.SetLogger(c, gmw.GetLogger(c).With(zap.String("request_id", id)))
		c.Next()
	}
}
