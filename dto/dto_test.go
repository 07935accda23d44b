package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evoai/commerce-agent/model"
)

func TestNewTrace(t *testing.T) {
	m := &model.AgentTrace{
		Id:             7,
		TraceId:        "tr_abc",
		RequestId:      "req",
		Message:        "Cancel order A1002",
		Intent:         "order_help",
		ToolsCalled:    []string{"order_lookup", "order_cancel"},
		PolicyDecision: &model.TracePolicy{CancelAllowed: false, Reason: "late"},
		FinalMessage:   "no",
		LatencyMs:      12,
		CreatedAt:      1700000000000,
	}

	out, err := NewTrace(m)
	require.NoError(t, err)
	require.Equal(t, "tr_abc", out.TraceId)
	require.Equal(t, []string{"order_lookup", "order_cancel"}, out.ToolsCalled)
	require.Equal(t, []any{}, out.Evidence)
	require.Equal(t, "late", out.PolicyDecision.Reason)
	require.Equal(t, int64(1700000000000), out.CreatedAt)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.NotContains(t, string(raw), `"id":7`)
}

func TestNewTraceSummariesEmpty(t *testing.T) {
	out, err := NewTraceSummaries(nil)
	require.NoError(t, err)
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestNewTraceSummaries(t *testing.T) {
	out, err := NewTraceSummaries([]model.AgentTrace{
		{TraceId: "tr_1", Intent: "other"},
		{TraceId: "tr_2", Intent: "product_assist", ToolsCalled: []string{"product_search"}},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "tr_1", out[0].TraceId)
	require.Equal(t, []string{}, out[0].ToolsCalled)
	require.Equal(t, []string{"product_search"}, out[1].ToolsCalled)
}

func TestNewOrderDropsEmail(t *testing.T) {
	created := time.Date(2025, 6, 1, 11, 40, 0, 0, time.UTC)
	out, err := NewOrder(&model.Order{
		OrderId:   "A1003",
		Email:     "mira@example.com",
		CreatedAt: created,
		Items:     []model.OrderItem{{Id: "P007", Size: "S"}},
		Status:    model.OrderStatusPlaced,
	})
	require.NoError(t, err)
	require.Equal(t, created, out.CreatedAt)
	require.Len(t, out.Items, 1)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "mira@example.com")
}
