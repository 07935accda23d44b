// Package agent implements the commerce assistant: a fixed four step pipeline
// (router, tool selector, policy guard, responder) over the catalog tools.
package agent

import (
	"time"

	"github.com/evoai/commerce-agent/model"
)

// Intent is the router's classification of a user message.
type Intent string

const (
	IntentProductAssist Intent = "product_assist"
	IntentOrderHelp     Intent = "order_help"
	IntentOther         Intent = "other"
)

// ParseIntent accepts the three known intents, ignoring case and surrounding quotes or punctuation.
func ParseIntent(raw string) (Intent, bool) {
	switch normalizeLabel(raw) {
	case string(IntentProductAssist):
		return IntentProductAssist, true
	case string(IntentOrderHelp):
		return IntentOrderHelp, true
	case string(IntentOther):
		return IntentOther, true
	default:
		return "", false
	}
}

// Tool names accepted by the tools endpoint.
const (
	ToolProductSearch   = "product_search"
	ToolSizeRecommender = "size_recommender"
	ToolETA             = "eta"
	ToolOrderLookup     = "order_lookup"
	ToolOrderCancel     = "order_cancel"
)

// ProductSummary is the evidence shape recorded for a matched product.
type ProductSummary struct {
	Id    string   `json:"id"`
	Title string   `json:"title"`
	Price float64  `json:"price"`
	Color string   `json:"color"`
	Sizes []string `json:"sizes"`
}

func summarize(p model.Product) ProductSummary {
	return ProductSummary{Id: p.Id, Title: p.Title, Price: p.Price, Color: p.Color, Sizes: p.Sizes}
}

type SizeRecommendation struct {
	RecommendedSize string `json:"recommendedSize"`
	Rationale       string `json:"rationale"`
}

// DeliveryEstimate is a delivery window in days.
type DeliveryEstimate struct {
	MinDays int `json:"minDays"`
	MaxDays int `json:"maxDays"`
}

type CancelResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ETAEvidence ties an estimate to the zip it was computed for.
type ETAEvidence struct {
	Zip string           `json:"zip"`
	ETA DeliveryEstimate `json:"eta"`
}

type OrderEvidence struct {
	OrderId   string    `json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PolicyDecision struct {
	CancelAllowed bool   `json:"cancel_allowed"`
	Reason        string `json:"reason,omitempty"`
}

// Trace is the JSON decision record returned with every chat response.
type Trace struct {
	TraceId        string          `json:"trace_id"`
	Intent         Intent          `json:"intent"`
	ToolsCalled    []string        `json:"tools_called"`
	Evidence       []any           `json:"evidence"`
	PolicyDecision *PolicyDecision `json:"policy_decision"`
	FinalMessage   string          `json:"final_message"`
}

// Result is the outcome of one agent run.
type Result struct {
	Trace      Trace
	Response   string
	Classifier string
	Latency    time.Duration
}

// ToModel converts the run into its persisted form.
func (r *Result) ToModel(requestId, message string) *model.AgentTrace {
	rec := &model.AgentTrace{
		TraceId:      r.Trace.TraceId,
		RequestId:    requestId,
		Message:      message,
		Intent:       string(r.Trace.Intent),
		ToolsCalled:  r.Trace.ToolsCalled,
		Evidence:     r.Trace.Evidence,
		FinalMessage: r.Trace.FinalMessage,
		LatencyMs:    r.Latency.Milliseconds(),
	}
	if pd := r.Trace.PolicyDecision; pd != nil {
		rec.PolicyDecision = &model.TracePolicy{CancelAllowed: pd.CancelAllowed, Reason: pd.Reason}
	}
	return rec
}
