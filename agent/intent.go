package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
)

// Classifier labels a user message with an intent.
type Classifier interface {
	Classify(ctx context.Context, message string) (Intent, error)
}

// HeuristicClassifier is the keyword fallback used when no model is configured or the model fails.
type HeuristicClassifier struct{}

func (HeuristicClassifier) Classify(_ context.Context, message string) (Intent, error) {
	input := strings.ToLower(message)
	switch {
	case containsAny(input, "cancel", "order", "tracking"):
		return IntentOrderHelp, nil
	case containsAny(input, "product", "dress", "size", "wedding"):
		return IntentProductAssist, nil
	default:
		return IntentOther, nil
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func normalizeLabel(raw string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(raw), "\"'`.!"))
}

const (
	maxClassifierResponseSize = 64 << 10
	classifierSystemPrompt    = "You are the intent router of an online fashion store assistant. " +
		"product_assist covers product discovery, sizing and delivery estimates. " +
		"order_help covers order status, lookup and cancellation. " +
		"Everything else, including requests for discounts or codes, is other."
	classifierFormatPrompt = "Respond with only one of: product_assist, order_help, or other. No other text."
)

// LLMClassifier asks an OpenAI compatible chat completions endpoint for the intent.
type LLMClassifier struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewLLMClassifier returns nil when baseURL or apiKey is empty.
func NewLLMClassifier(baseURL, apiKey, model string, timeout time.Duration) *LLMClassifier {
	if baseURL == "" || apiKey == "" {
		return nil
	}
	return &LLMClassifier{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *LLMClassifier) Classify(ctx context.Context, message string) (Intent, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Classify this user query: %q", message)},
			{Role: "system", Content: classifierFormatPrompt},
		},
		MaxTokens: 8,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal classifier request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build classifier request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "do classifier request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxClassifierResponseSize))
	if err != nil {
		return "", errors.Wrap(err, "read classifier response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("classifier status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatCompletionResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "decode classifier response")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("classifier returned no choices")
	}

	label := parsed.Choices[0].Message.Content
	intent, ok := ParseIntent(label)
	if !ok {
		return "", errors.Errorf("classifier returned unknown intent %q", label)
	}
	return intent, nil
}

// Router prefers the model classifier and falls back to the heuristic on any failure.
type Router struct {
	primary  Classifier
	fallback Classifier
}

// NewRouter accepts a nil primary, in which case only the heuristic runs.
func NewRouter(primary Classifier) *Router {
	if llm, ok := primary.(*LLMClassifier); ok && llm == nil {
		primary = nil
	}
	return &Router{primary: primary, fallback: HeuristicClassifier{}}
}

// Route returns the intent and the name of the classifier that produced it.
func (r *Router) Route(ctx context.Context, message string) (Intent, string) {
	if r.primary != nil {
		intent, err := r.primary.Classify(ctx, message)
		if err == nil {
			return intent, "llm"
		}
		gmw.GetLogger(ctx).Warn("intent classifier failed, using heuristic", zap.Error(err))
	}

	intent, _ := r.fallback.Classify(ctx, message)
	return intent, "heuristic"
}
