package random

import (
	"strings"

	"github.com/google/uuid"
)

// GetUUID returns a random UUID without hyphens.
func GetUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// TraceID returns a short, prefixed identifier for an agent run.
func TraceID() string {
	return "tr_" + GetUUID()[:20]
}
