package main

import (
	"encoding/json"
	"time"
)

// chatCase is one message sent to the chat endpoint.
type chatCase struct {
	Name    string
	Message string
}

// toolCase is one direct tool invocation.
type toolCase struct {
	Tool       string
	Parameters map[string]any
}

type suite string

const (
	suiteChat  suite = "chat"
	suiteTools suite = "tools"
)

// resultKind classifies how a case ended.
type resultKind string

const (
	kindSuccess        resultKind = "success"
	kindHTTPError      resultKind = "http_error"
	kindTransportError resultKind = "transport_error"
)

// caseResult captures the outcome of a single case. Trace, Response and Result are
// only set for successful cases; Body holds the raw body of an HTTP error.
type caseResult struct {
	Suite      suite
	Index      int
	Name       string
	Kind       resultKind
	StatusCode int
	Body       string
	Trace      json.RawMessage
	Response   string
	Result     json.RawMessage
	Err        string
	Duration   time.Duration
}

type chatRequest struct {
	Message string `json:"message"`
}

type toolRequest struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}
