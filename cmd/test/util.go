package main

import (
	"bytes"
	"encoding/json"
	"strings"
)

// shorten trims whitespace and clamps the string to the provided rune length.
func shorten(text string, limit int) string {
	text = strings.TrimSpace(text)
	return truncateString(text, limit)
}

// truncateString clamps long strings while preserving rune safety.
func truncateString(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

// prettyJSON indents raw with two spaces, keeping the server's key order.
// Values that are not valid JSON are returned as is.
func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
