package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnknownTool is returned for tool names the registry does not know.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidParameters wraps every parameter decoding or validation failure.
	ErrInvalidParameters = errors.New("invalid tool parameters")
)

// InvocationError carries the client-facing message for a rejected invocation.
type InvocationError struct {
	Message string
	cause   error
}

func (e *InvocationError) Error() string { return e.Message }
func (e *InvocationError) Unwrap() error { return e.cause }

func reject(cause error, message string) error {
	return &InvocationError{Message: message, cause: cause}
}

type productSearchParams struct {
	Query    string   `json:"query"`
	PriceMax float64  `json:"price_max" validate:"gte=0"`
	Tags     []string `json:"tags" validate:"dive,required"`
}

type sizeRecommenderParams struct {
	UserInputs string `json:"user_inputs"`
}

type etaParams struct {
	Zip string `json:"zip" validate:"required"`
}

type orderLookupParams struct {
	OrderId string `json:"order_id" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

type orderCancelParams struct {
	OrderId   string `json:"order_id" validate:"required"`
	Timestamp string `json:"timestamp" validate:"omitempty,cancel_timestamp"`
}

// cancelTimestampLayouts are tried in order when parsing order_cancel's timestamp.
var cancelTimestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseCancelTimestamp(raw string) (time.Time, bool) {
	for _, layout := range cancelTimestampLayouts {
		if ts, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// Registry decodes and validates tool parameters and dispatches to the Toolset.
type Registry struct {
	tools    *Toolset
	validate *validator.Validate
	// missingParamMessages is the client-facing message when validation fails, per tool.
	missingParamMessages map[string]string
}

func NewRegistry(tools *Toolset) *Registry {
	v := validator.New()
	_ = v.RegisterValidation("cancel_timestamp", func(fl validator.FieldLevel) bool {
		_, ok := parseCancelTimestamp(fl.Field().String())
		return ok
	})

	return &Registry{
		tools:    tools,
		validate: v,
		missingParamMessages: map[string]string{
			ToolProductSearch:   "Invalid parameters for product search",
			ToolSizeRecommender: "Invalid parameters for size recommender",
			ToolETA:             "Zip code is required for ETA tool",
			ToolOrderLookup:     "Order ID and email are required for order lookup",
			ToolOrderCancel:     "Order ID is required for cancellation",
		},
	}
}

// Names lists the registered tools.
func (r *Registry) Names() []string {
	return []string{ToolProductSearch, ToolSizeRecommender, ToolETA, ToolOrderLookup, ToolOrderCancel}
}

// Invoke runs tool with raw JSON parameters. A nil or empty params value is treated as {}.
func (r *Registry) Invoke(ctx context.Context, tool string, params json.RawMessage) (any, error) {
	switch tool {
	case ToolProductSearch:
		var p productSearchParams
		if err := r.decode(tool, params, &p); err != nil {
			return nil, err
		}
		return r.tools.ProductSearch(ctx, p.Query, p.PriceMax, p.Tags)

	case ToolSizeRecommender:
		var p sizeRecommenderParams
		if err := r.decode(tool, params, &p); err != nil {
			return nil, err
		}
		return r.tools.SizeRecommender(p.UserInputs), nil

	case ToolETA:
		var p etaParams
		if err := r.decode(tool, params, &p); err != nil {
			return nil, err
		}
		return r.tools.ETA(ctx, p.Zip), nil

	case ToolOrderLookup:
		var p orderLookupParams
		if err := r.decode(tool, params, &p); err != nil {
			return nil, err
		}
		order, err := r.tools.OrderLookup(ctx, p.OrderId, p.Email)
		if err != nil || order == nil {
			return nil, err
		}
		return order, nil

	case ToolOrderCancel:
		var p orderCancelParams
		if err := r.decode(tool, params, &p); err != nil {
			return nil, err
		}
		at := r.tools.Now()
		if p.Timestamp != "" {
			at, _ = parseCancelTimestamp(p.Timestamp)
		}
		return r.tools.OrderCancel(ctx, p.OrderId, at)

	case "":
		return nil, reject(ErrInvalidParameters, "Tool name is required")
	default:
		return nil, reject(ErrUnknownTool, "Unknown tool: "+tool)
	}
}

// InvokeDemo runs tool with fixed sample parameters.
func (r *Registry) InvokeDemo(ctx context.Context, tool string) (any, error) {
	demo := map[string]string{
		ToolProductSearch:   `{"query":"dress","price_max":100,"tags":["wedding"]}`,
		ToolSizeRecommender: `{"user_inputs":"I am between M and L"}`,
		ToolETA:             `{"zip":"560001"}`,
		ToolOrderLookup:     `{"order_id":"A1001","email":"rehan@example.com"}`,
		ToolOrderCancel:     `{"order_id":"A1001"}`,
	}
	params, ok := demo[tool]
	if !ok {
		return r.Invoke(ctx, tool, nil)
	}
	return r.Invoke(ctx, tool, json.RawMessage(params))
}

func (r *Registry) decode(tool string, raw json.RawMessage, dst any) error {
	message := r.missingParamMessages[tool]

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return reject(errors.Wrap(ErrInvalidParameters, err.Error()), message)
	}
	if err := r.validate.Struct(dst); err != nil {
		return reject(errors.Wrap(ErrInvalidParameters, err.Error()), message)
	}
	return nil
}
