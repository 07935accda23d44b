package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(toolCalls.WithLabelValues("eta", "ok"))
	RecordToolCall("eta", "ok")
	RecordToolCall("eta", "ok")
	require.Equal(t, before+2, testutil.ToFloat64(toolCalls.WithLabelValues("eta", "ok")))

	beforeCancel := testutil.ToFloat64(cancellations.WithLabelValues("false"))
	RecordCancellation(false)
	require.Equal(t, beforeCancel+1, testutil.ToFloat64(cancellations.WithLabelValues("false")))

	beforeRun := testutil.ToFloat64(chatRuns.WithLabelValues("other", "heuristic"))
	RecordChatRun("other", "heuristic")
	require.Equal(t, beforeRun+1, testutil.ToFloat64(chatRuns.WithLabelValues("other", "heuristic")))
}

func TestRecordHTTPRequestUnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	RecordHTTPRequest("GET", "", 404, 5*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}
