package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/patrickmn/go-cache"

	"github.com/evoai/commerce-agent/common"
	"github.com/evoai/commerce-agent/model"
	"github.com/evoai/commerce-agent/monitor"
)

const etaCacheKeyPrefix = "evoai:eta:"

// Toolset holds the catalog tools shared by the agent pipeline and the tools endpoint.
type Toolset struct {
	now          func() time.Time
	cancelWindow time.Duration
	etaTTL       time.Duration
	localETA     *cache.Cache
}

// NewToolset builds a Toolset. now may be nil, in which case time.Now is used.
func NewToolset(now func() time.Time, cancelWindow, etaTTL time.Duration) *Toolset {
	if now == nil {
		now = time.Now
	}
	return &Toolset{
		now:          now,
		cancelWindow: cancelWindow,
		etaTTL:       etaTTL,
		localETA:     cache.New(etaTTL, 10*time.Minute),
	}
}

// Now returns the toolset clock.
func (t *Toolset) Now() time.Time { return t.now() }

// ProductSearch filters the catalog by title query, max price and tags.
func (t *Toolset) ProductSearch(ctx context.Context, query string, priceMax float64, tags []string) ([]model.Product, error) {
	products, err := model.SearchProducts(ctx, query, priceMax, tags)
	recordTool(ToolProductSearch, err)
	if err != nil {
		return nil, errors.Wrap(err, "product search")
	}
	return products, nil
}

// SizeRecommender maps free-form sizing hints onto a single size.
func (t *Toolset) SizeRecommender(userInputs string) SizeRecommendation {
	recordTool(ToolSizeRecommender, nil)
	input := strings.ToLower(userInputs)

	switch {
	case strings.Contains(input, "m/l") || strings.Contains(input, "between m and l"):
		return SizeRecommendation{
			RecommendedSize: "L",
			Rationale:       "Based on your mention of being between M and L, I recommend size L for a more comfortable fit that allows for movement, especially for wedding events.",
		}
	case strings.Contains(input, "s/m") || strings.Contains(input, "between s and m"):
		return SizeRecommendation{
			RecommendedSize: "M",
			Rationale:       "Since you mentioned being between S and M, I recommend size M for a balanced fit that accommodates most body types.",
		}
	default:
		return SizeRecommendation{
			RecommendedSize: "M",
			Rationale:       "Based on standard sizing, I recommend size M which fits most average body types comfortably.",
		}
	}
}

// estimateDelivery derives the window from the first two digits of the zip.
// Zips that do not start with two digits fall into the slowest band.
func estimateDelivery(zip string) DeliveryEstimate {
	zip = strings.TrimSpace(zip)
	prefix := -1
	if len(zip) >= 2 {
		if n, err := strconv.Atoi(zip[:2]); err == nil {
			prefix = n
		}
	}

	switch {
	case prefix >= 10 && prefix <= 30:
		return DeliveryEstimate{MinDays: 2, MaxDays: 3}
	case prefix >= 31 && prefix <= 60:
		return DeliveryEstimate{MinDays: 3, MaxDays: 5}
	default:
		return DeliveryEstimate{MinDays: 4, MaxDays: 6}
	}
}

// ETA returns the delivery estimate for zip. Estimates are cached in Redis when it is enabled,
// otherwise in process.
func (t *Toolset) ETA(ctx context.Context, zip string) DeliveryEstimate {
	recordTool(ToolETA, nil)
	key := etaCacheKeyPrefix + strings.TrimSpace(zip)
	lg := gmw.GetLogger(ctx)

	if common.IsRedisEnabled() {
		if raw, err := common.RedisGet(ctx, key); err == nil {
			var cached DeliveryEstimate
			if err = json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached
			}
		}
	} else if cached, ok := t.localETA.Get(key); ok {
		return cached.(DeliveryEstimate)
	}

	estimate := estimateDelivery(zip)
	if common.IsRedisEnabled() {
		payload, _ := json.Marshal(estimate)
		if err := common.RedisSet(ctx, key, string(payload), t.etaTTL); err != nil {
			lg.Warn("cache eta in redis", zap.Error(err))
		}
	} else {
		t.localETA.Set(key, estimate, cache.DefaultExpiration)
	}
	return estimate
}

// OrderLookup returns nil without error when no order matches both id and email.
func (t *Toolset) OrderLookup(ctx context.Context, orderId, email string) (*model.Order, error) {
	order, err := model.LookupOrder(ctx, orderId, email)
	if errors.Is(err, model.ErrOrderNotFound) {
		recordTool(ToolOrderLookup, nil)
		return nil, nil
	}
	recordTool(ToolOrderLookup, err)
	if err != nil {
		return nil, errors.Wrap(err, "order lookup")
	}
	return order, nil
}

// OrderCancel cancels orderId when at is within the cancellation window of its creation time.
func (t *Toolset) OrderCancel(ctx context.Context, orderId string, at time.Time) (CancelResult, error) {
	order, err := model.GetOrderById(ctx, orderId)
	if errors.Is(err, model.ErrOrderNotFound) {
		recordTool(ToolOrderCancel, nil)
		return CancelResult{Success: false, Message: "Order not found"}, nil
	}
	if err != nil {
		recordTool(ToolOrderCancel, err)
		return CancelResult{}, errors.Wrap(err, "order cancel")
	}

	if order.Status == model.OrderStatusCancelled {
		recordTool(ToolOrderCancel, nil)
		return CancelResult{Success: true, Message: fmt.Sprintf("Order %s was already cancelled.", orderId)}, nil
	}

	if at.Sub(order.CreatedAt) > t.cancelWindow {
		recordTool(ToolOrderCancel, nil)
		monitor.RecordCancellation(false)
		return CancelResult{
			Success: false,
			Message: "Cancellation not allowed. " + t.windowExceededReason() + ".",
		}, nil
	}

	if err = model.MarkOrderCancelled(ctx, orderId, at); err != nil {
		recordTool(ToolOrderCancel, err)
		return CancelResult{}, errors.Wrap(err, "order cancel")
	}
	recordTool(ToolOrderCancel, nil)
	monitor.RecordCancellation(true)
	return CancelResult{Success: true, Message: fmt.Sprintf("Order %s has been successfully cancelled.", orderId)}, nil
}

func (t *Toolset) windowExceededReason() string {
	return fmt.Sprintf("Order was placed more than %d minutes ago", int(t.cancelWindow/time.Minute))
}

func recordTool(name string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	monitor.RecordToolCall(name, status)
}
