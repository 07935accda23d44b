package monitor

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evoai_chat_runs_total",
		Help: "Agent runs by classified intent",
	}, []string{"intent", "classifier"})
	toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evoai_tool_calls_total",
		Help: "Tool invocations by tool and outcome",
	}, []string{"tool", "status"})
	cancellations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evoai_order_cancellations_total",
		Help: "Order cancellation decisions",
	}, []string{"allowed"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evoai_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})
	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evoai_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(chatRuns, toolCalls, cancellations, httpRequests, httpLatency)
}

// RecordChatRun counts a completed agent run. classifier is "llm" or "heuristic".
func RecordChatRun(intent, classifier string) {
	chatRuns.WithLabelValues(intent, classifier).Inc()
}

// RecordToolCall counts a tool invocation; status is "ok" or "error".
func RecordToolCall(tool, status string) {
	toolCalls.WithLabelValues(tool, status).Inc()
}

func RecordCancellation(allowed bool) {
	cancellations.WithLabelValues(strconv.FormatBool(allowed)).Inc()
}

// RecordHTTPRequest is called by the request metrics middleware.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
