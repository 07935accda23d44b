package helper

import (
	"fmt"
	"time"
)

// GetTimeString returns a sortable timestamp with nanosecond suffix, used as a request id prefix.
func GetTimeString() string {
	now := time.Now()
	return fmt.Sprintf("%s%09d", now.Format("20060102150405"), now.Nanosecond())
}
