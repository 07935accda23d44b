package helper

import (
	"fmt"

	"github.com/evoai/commerce-agent/common/random"
)

// RequestIdKey is both the gin context key and the response header carrying the request id.
const RequestIdKey = "X-Evoai-Request-Id"

func GenRequestID() string {
	return GetTimeString() + random.GetUUID()[:8]
}

// MessageWithRequestId appends the request id so users can quote it when reporting errors.
func MessageWithRequestId(message string, id string) string {
	if id == "" {
		return message
	}
	return fmt.Sprintf("%s (request id: %s)", message, id)
}
