package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoai/commerce-agent/model"
)

func TestSizeRecommender(t *testing.T) {
	tools := NewToolset(nil, time.Hour, time.Minute)

	cases := map[string]string{
		"I'm between M/L":           "L",
		"I'm between M and L":       "L",
		"usually s/m":               "M",
		"somewhere between S and M": "M",
		"no idea":                   "M",
	}
	for input, want := range cases {
		assert.Equal(t, want, tools.SizeRecommender(input).RecommendedSize, input)
	}
	assert.Contains(t, tools.SizeRecommender("m/l").Rationale, "wedding")
}

func TestEstimateDelivery(t *testing.T) {
	cases := map[string]DeliveryEstimate{
		"10001":  {MinDays: 2, MaxDays: 3},
		"30999":  {MinDays: 2, MaxDays: 3},
		"31000":  {MinDays: 3, MaxDays: 5},
		"560001": {MinDays: 3, MaxDays: 5},
		"600001": {MinDays: 3, MaxDays: 5},
		"61000":  {MinDays: 4, MaxDays: 6},
		"09000":  {MinDays: 4, MaxDays: 6},
		"ab123":  {MinDays: 4, MaxDays: 6},
		"1":      {MinDays: 4, MaxDays: 6},
	}
	for zip, want := range cases {
		assert.Equal(t, want, estimateDelivery(zip), zip)
	}
}

func TestETACachedLocally(t *testing.T) {
	ctx := setupCatalog(t, time.Now())
	tools := NewToolset(nil, time.Hour, time.Minute)

	first := tools.ETA(ctx, "560001")
	require.Equal(t, DeliveryEstimate{MinDays: 3, MaxDays: 5}, first)

	cached, ok := tools.localETA.Get(etaCacheKeyPrefix + "560001")
	require.True(t, ok)
	require.Equal(t, first, cached)
	require.Equal(t, first, tools.ETA(ctx, "560001"))
}

func TestOrderLookupTool(t *testing.T) {
	ctx := setupCatalog(t, time.Now())
	tools := NewToolset(nil, time.Hour, time.Minute)

	order, err := tools.OrderLookup(ctx, "A1001", "rehan@example.com")
	require.NoError(t, err)
	require.NotNil(t, order)

	order, err = tools.OrderLookup(ctx, "A1001", "wrong@example.com")
	require.NoError(t, err)
	require.Nil(t, order)
}

func TestOrderCancelPolicy(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := setupCatalog(t, now)
	tools := NewToolset(fixedClock(now), 60*time.Minute, time.Minute)

	blocked, err := tools.OrderCancel(ctx, "A1002", now)
	require.NoError(t, err)
	require.False(t, blocked.Success)
	require.Equal(t, "Cancellation not allowed. Order was placed more than 60 minutes ago.", blocked.Message)

	allowed, err := tools.OrderCancel(ctx, "A1003", now)
	require.NoError(t, err)
	require.True(t, allowed.Success)
	require.Equal(t, "Order A1003 has been successfully cancelled.", allowed.Message)

	stored, err := model.GetOrderById(ctx, "A1003")
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCancelled, stored.Status)

	again, err := tools.OrderCancel(ctx, "A1003", now)
	require.NoError(t, err)
	require.True(t, again.Success)
	require.Contains(t, again.Message, "already cancelled")

	missing, err := tools.OrderCancel(ctx, "Z0000", now)
	require.NoError(t, err)
	require.Equal(t, CancelResult{Success: false, Message: "Order not found"}, missing)
}

func TestOrderCancelWindowBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := setupCatalog(t, now)
	tools := NewToolset(fixedClock(now), 60*time.Minute, time.Minute)

	// A1003 was created 20 minutes before now; exactly 60 minutes after creation is still allowed.
	atBoundary := now.Add(40 * time.Minute)
	result, err := tools.OrderCancel(ctx, "A1003", atBoundary)
	require.NoError(t, err)
	require.True(t, result.Success)
}

func TestOrderCancelAfterWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := setupCatalog(t, now)
	tools := NewToolset(fixedClock(now), 60*time.Minute, time.Minute)

	result, err := tools.OrderCancel(ctx, "A1003", now.Add(41*time.Minute))
	require.NoError(t, err)
	require.False(t, result.Success)
}
