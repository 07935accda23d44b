package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
)

// runner drives the chat and tool suites against one API base. Cases run strictly one
// after another and a failing case never stops the suite.
type runner struct {
	baseURL string
	client  *http.Client
	out     io.Writer
	logger  glog.Logger
}

func newRunner(baseURL string, client *http.Client, out io.Writer, logger glog.Logger) *runner {
	if client == nil {
		client = http.DefaultClient
	}
	return &runner{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		out:     out,
		logger:  logger,
	}
}

// runAll prints the banner, runs both suites and closes with the summary table.
func (r *runner) runAll(ctx context.Context, chats []chatCase, tools []toolCase) []caseResult {
	r.printf("EvoAI Commerce Agent Test Suite\n")
	r.printf("Make sure the server is running on %s\n", serverOrigin(r.baseURL))

	results := r.runChatTests(ctx, chats)
	results = append(results, r.runToolTests(ctx, tools)...)

	r.printf("\nTest suite completed!\n")
	renderSummary(r.out, results)
	return results
}

func (r *runner) runChatTests(ctx context.Context, cases []chatCase) []caseResult {
	r.printf("Testing EvoAI Chat Endpoint\n")
	r.printf("%s\n", strings.Repeat("=", chatRuleWidth))

	results := make([]caseResult, 0, len(cases))
	for i, tc := range cases {
		r.printf("\nTest Case %d: %s\n", i+1, tc.Name)
		r.printf("Input: %s\n", tc.Message)

		res := r.runChatCase(ctx, i+1, tc)
		r.printOutcome(res)
		if res.Kind == kindSuccess {
			r.printf("Trace: %s\n", prettyJSON(res.Trace))
			r.printf("Response: %s\n", res.Response)
		}
		r.printf("%s\n", strings.Repeat("-", chatRuleWidth))

		r.logResult(res)
		results = append(results, res)
	}
	return results
}

func (r *runner) runChatCase(ctx context.Context, index int, tc chatCase) caseResult {
	res := caseResult{Suite: suiteChat, Index: index, Name: tc.Name}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	fields, ok := r.post(ctx, "/chat", chatRequest{Message: tc.Message}, &res)
	if !ok {
		return res
	}

	res.Trace = fieldOr(fields, "trace", json.RawMessage("{}"))
	res.Response = textField(fields, "response")
	return res
}

func (r *runner) runToolTests(ctx context.Context, cases []toolCase) []caseResult {
	r.printf("\nTesting Individual Tools\n")
	r.printf("%s\n", strings.Repeat("=", chatRuleWidth))

	results := make([]caseResult, 0, len(cases))
	for i, tc := range cases {
		r.printf("\nTesting tool: %s\n", tc.Tool)

		res := r.runToolCase(ctx, i+1, tc)
		r.printOutcome(res)
		if res.Kind == kindSuccess {
			r.printf("Result: %s\n", prettyJSON(res.Result))
		}
		r.printf("%s\n", strings.Repeat("-", toolRuleWidth))

		r.logResult(res)
		results = append(results, res)
	}
	return results
}

func (r *runner) runToolCase(ctx context.Context, index int, tc toolCase) caseResult {
	res := caseResult{Suite: suiteTools, Index: index, Name: tc.Tool}
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	fields, ok := r.post(ctx, "/tools", toolRequest{Tool: tc.Tool, Parameters: tc.Parameters}, &res)
	if !ok {
		return res
	}

	res.Result = fieldOr(fields, "result", json.RawMessage("{}"))
	return res
}

// post sends one request and classifies it into res. It returns the decoded body
// fields only for a 200 with a JSON object body.
func (r *runner) post(ctx context.Context, path string, payload any, res *caseResult) (map[string]json.RawMessage, bool) {
	status, body, err := postJSON(ctx, r.client, r.baseURL+path, payload)
	res.StatusCode = status
	if err != nil {
		res.Kind = kindTransportError
		res.Err = err.Error()
		return nil, false
	}

	if status != http.StatusOK {
		res.Kind = kindHTTPError
		res.Body = string(body)
		return nil, false
	}

	fields, err := decodeFields(body)
	if err != nil {
		res.Kind = kindTransportError
		res.Err = err.Error()
		return nil, false
	}

	res.Kind = kindSuccess
	return fields, true
}

func (r *runner) printOutcome(res caseResult) {
	switch res.Kind {
	case kindSuccess:
		r.printf("✅ Success\n")
	case kindHTTPError:
		r.printf("❌ Error: %d - %s\n", res.StatusCode, res.Body)
	default:
		r.printf("❌ Exception: %s\n", res.Err)
	}
}

func (r *runner) logResult(res caseResult) {
	fields := []zap.Field{
		zap.String("suite", string(res.Suite)),
		zap.Int("index", res.Index),
		zap.String("name", res.Name),
		zap.String("kind", string(res.Kind)),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", res.Duration),
	}
	switch res.Kind {
	case kindSuccess:
		r.logger.Debug("case passed", fields...)
	case kindHTTPError:
		r.logger.Warn("case failed", append(fields, zap.String("body", truncateString(res.Body, 256)))...)
	default:
		r.logger.Warn("case failed", append(fields, zap.String("error", res.Err))...)
	}
}

func (r *runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// fieldOr returns fields[key], or def when the key is absent.
func fieldOr(fields map[string]json.RawMessage, key string, def json.RawMessage) json.RawMessage {
	if v, ok := fields[key]; ok {
		return v
	}
	return def
}

// textField returns a string field unquoted, any other JSON value as its raw text,
// and "" when the key is absent.
func textField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
