package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Bool reads a boolean variable. Unset or unparsable values fall back to defaultValue.
func Bool(key string, defaultValue bool) bool {
	raw, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// Int reads an integer variable. Unset or unparsable values fall back to defaultValue.
func Int(key string, defaultValue int) int {
	raw, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func Float64(key string, defaultValue float64) float64 {
	raw, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// String reads a string variable, returning defaultValue when unset or blank.
func String(key string, defaultValue string) string {
	raw, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	return raw
}

// Seconds reads an integer number of seconds and converts it to a duration.
func Seconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(Int(key, defaultSeconds)) * time.Second
}

func lookup(key string) (string, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}
