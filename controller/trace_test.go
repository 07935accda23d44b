package controller

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"testing"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/stretchr/testify/require"

	"github.com/evoai/commerce-agent/common/logger"
	"github.com/evoai/commerce-agent/model"
)

func TestTraceEndpoints(t *testing.T) {
	server := newTestServer(t)
	ctx := gmw.SetLogger(context.Background(), logger.Logger)

	require.NoError(t, model.CreateAgentTrace(ctx, &model.AgentTrace{
		TraceId: "tr_first", Intent: "other", ToolsCalled: []string{}, FinalMessage: "hi",
	}))
	require.NoError(t, model.CreateAgentTrace(ctx, &model.AgentTrace{
		TraceId: "tr_second", Intent: "order_help", ToolsCalled: []string{"order_lookup"},
		PolicyDecision: &model.TracePolicy{CancelAllowed: true},
	}))

	rec := doJSON(server, http.MethodGet, "/api/traces?intent=order_help", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Success bool `json:"success"`
		Data    struct {
			Items []map[string]any `json:"items"`
			Total int64            `json:"total"`
			Size  int              `json:"size"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.True(t, list.Success)
	require.EqualValues(t, 1, list.Data.Total)
	require.Len(t, list.Data.Items, 1)
	require.Equal(t, "tr_second", list.Data.Items[0]["trace_id"])
	require.Equal(t, defaultTracePageSize, list.Data.Size)

	rec = doJSON(server, http.MethodGet, "/api/traces?size=1000", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, maxTracePageSize, list.Data.Size)
	require.EqualValues(t, 2, list.Data.Total)

	rec = doJSON(server, http.MethodGet, "/api/traces/tr_second", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var one struct {
		Data struct {
			TraceId        string `json:"trace_id"`
			PolicyDecision struct {
				CancelAllowed bool `json:"cancel_allowed"`
			} `json:"policy_decision"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	require.Equal(t, "tr_second", one.Data.TraceId)
	require.True(t, one.Data.PolicyDecision.CancelAllowed)

	rec = doJSON(server, http.MethodGet, "/api/traces/tr_missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTracesClampsPage(t *testing.T) {
	server := newTestServer(t)
	ctx := gmw.SetLogger(context.Background(), logger.Logger)
	require.NoError(t, model.CreateAgentTrace(ctx, &model.AgentTrace{TraceId: "tr_only", Intent: "other"}))

	rec := doJSON(server, http.MethodGet, "/api/traces?p=9223372036854775807&size=100", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Success bool `json:"success"`
		Data    struct {
			Items []map[string]any `json:"items"`
			Total int64            `json:"total"`
			Page  int              `json:"page"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.True(t, list.Success)
	require.Equal(t, math.MaxInt32/100, list.Data.Page)
	require.EqualValues(t, 1, list.Data.Total)
	require.Empty(t, list.Data.Items)
}

func TestGetStatus(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(server, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Contains(t, body.Data, "version")
	require.Contains(t, body.Data, "start_time")
}
