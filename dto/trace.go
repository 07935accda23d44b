package dto

import (
	"github.com/Laisky/errors/v2"
	"github.com/jinzhu/copier"

	"github.com/evoai/commerce-agent/model"
)

// Trace is the full stored decision record returned by the trace detail endpoint.
type Trace struct {
	TraceId        string             `json:"trace_id"`
	RequestId      string             `json:"request_id"`
	Message        string             `json:"message"`
	Intent         string             `json:"intent"`
	ToolsCalled    []string           `json:"tools_called"`
	Evidence       []any              `json:"evidence"`
	PolicyDecision *model.TracePolicy `json:"policy_decision"`
	FinalMessage   string             `json:"final_message"`
	LatencyMs      int64              `json:"latency_ms"`
	CreatedAt      int64              `json:"created_at"`
}

// TraceSummary is one row of the trace listing.
type TraceSummary struct {
	TraceId     string   `json:"trace_id"`
	Intent      string   `json:"intent"`
	ToolsCalled []string `json:"tools_called"`
	LatencyMs   int64    `json:"latency_ms"`
	CreatedAt   int64    `json:"created_at"`
}

func NewTrace(m *model.AgentTrace) (*Trace, error) {
	out := new(Trace)
	if err := copier.Copy(out, m); err != nil {
		return nil, errors.Wrap(err, "copy trace")
	}
	if out.ToolsCalled == nil {
		out.ToolsCalled = []string{}
	}
	if out.Evidence == nil {
		out.Evidence = []any{}
	}
	return out, nil
}

// NewTraceSummaries never returns a nil slice so empty pages encode as [].
func NewTraceSummaries(ms []model.AgentTrace) ([]TraceSummary, error) {
	out := make([]TraceSummary, 0, len(ms))
	if len(ms) == 0 {
		return out, nil
	}
	if err := copier.Copy(&out, &ms); err != nil {
		return nil, errors.Wrap(err, "copy trace summaries")
	}
	for i := range out {
		if out[i].ToolsCalled == nil {
			out[i].ToolsCalled = []string{}
		}
	}
	return out, nil
}
