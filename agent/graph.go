package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"

	"github.com/evoai/commerce-agent/common/random"
	"github.com/evoai/commerce-agent/model"
	"github.com/evoai/commerce-agent/monitor"
)

// defaultPriceMax applies when a product request names no budget.
const defaultPriceMax = 1000

var (
	dollarPricePattern = regexp.MustCompile(`\$(\d+)`)
	wordPricePattern   = regexp.MustCompile(`(\d+)\s*dollars`)
	zipPattern         = regexp.MustCompile(`\b\d{5,6}\b`)
	orderIdPattern     = regexp.MustCompile(`[A-Z]\d+`)
	emailPattern       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	occasionTags       = []string{"wedding", "party", "daywear"}
)

// guardrail marks messages the responder must refuse rather than answer.
type guardrail int

const (
	guardrailNone guardrail = iota
	guardrailDiscountCode
	guardrailOutOfScope
)

// runState is threaded through the pipeline steps.
type runState struct {
	message string
	lower   string
	intent  Intent

	toolsCalled []string
	evidence    []any

	products []model.Product
	size     *SizeRecommendation
	eta      *DeliveryEstimate

	orderRequested bool
	order          *model.Order
	cancel         *CancelResult
	policy         *PolicyDecision
	guard          guardrail

	finalMessage string
}

func (s *runState) called(tool string, evidence ...any) {
	s.toolsCalled = append(s.toolsCalled, tool)
	s.evidence = append(s.evidence, evidence...)
}

// Agent runs router, tool selector, policy guard and responder in that order.
type Agent struct {
	router *Router
	tools  *Toolset
}

func New(router *Router, tools *Toolset) *Agent {
	return &Agent{router: router, tools: tools}
}

// Run answers message. Tool failures abort the run; an unknown order is not a failure.
func (a *Agent) Run(ctx context.Context, message string) (*Result, error) {
	start := time.Now()
	state := &runState{
		message:     message,
		lower:       strings.ToLower(message),
		toolsCalled: []string{},
		evidence:    []any{},
	}

	var classifier string
	state.intent, classifier = a.router.Route(ctx, message)
	lg := gmw.GetLogger(ctx).With(zap.String("intent", string(state.intent)))
	lg.Debug("message routed", zap.String("classifier", classifier))

	if err := a.selectTools(ctx, state); err != nil {
		return nil, errors.Wrapf(err, "run tools for intent %s", state.intent)
	}
	a.guardPolicy(state)
	a.respond(state)

	monitor.RecordChatRun(string(state.intent), classifier)
	result := &Result{
		Trace: Trace{
			TraceId:        random.TraceID(),
			Intent:         state.intent,
			ToolsCalled:    state.toolsCalled,
			Evidence:       state.evidence,
			PolicyDecision: state.policy,
			FinalMessage:   state.finalMessage,
		},
		Response:   state.finalMessage,
		Classifier: classifier,
		Latency:    time.Since(start),
	}
	lg.Info("agent run finished",
		zap.String("trace_id", result.Trace.TraceId),
		zap.Strings("tools_called", state.toolsCalled),
		zap.Duration("latency", result.Latency))
	return result, nil
}

func (a *Agent) selectTools(ctx context.Context, s *runState) error {
	switch s.intent {
	case IntentProductAssist:
		return a.selectProductTools(ctx, s)
	case IntentOrderHelp:
		return a.selectOrderTools(ctx, s)
	default:
		return nil
	}
}

func (a *Agent) selectProductTools(ctx context.Context, s *runState) error {
	priceMax := extractPriceMax(s.message)
	tags := make([]string, 0, len(occasionTags))
	for _, tag := range occasionTags {
		if strings.Contains(s.lower, tag) {
			tags = append(tags, tag)
		}
	}

	products, err := a.tools.ProductSearch(ctx, "dress", priceMax, tags)
	if err != nil {
		return err
	}
	s.products = products
	summaries := make([]any, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, summarize(p))
	}
	s.called(ToolProductSearch, summaries...)

	if zip := zipPattern.FindString(s.message); zip != "" {
		estimate := a.tools.ETA(ctx, zip)
		s.eta = &estimate
		s.called(ToolETA, ETAEvidence{Zip: zip, ETA: estimate})
	}

	rec := a.tools.SizeRecommender(s.message)
	s.size = &rec
	s.called(ToolSizeRecommender, rec)
	return nil
}

func extractPriceMax(message string) float64 {
	for _, pattern := range []*regexp.Regexp{dollarPricePattern, wordPricePattern} {
		if m := pattern.FindStringSubmatch(message); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return float64(v)
			}
		}
	}
	return defaultPriceMax
}

func (a *Agent) selectOrderTools(ctx context.Context, s *runState) error {
	orderId := orderIdPattern.FindString(s.message)
	email := emailPattern.FindString(s.message)
	if orderId == "" || email == "" {
		return nil
	}
	s.orderRequested = true

	order, err := a.tools.OrderLookup(ctx, orderId, email)
	if err != nil {
		return err
	}
	s.toolsCalled = append(s.toolsCalled, ToolOrderLookup)
	if order == nil {
		return nil
	}
	s.order = order
	s.evidence = append(s.evidence, OrderEvidence{OrderId: order.OrderId, CreatedAt: order.CreatedAt})

	if !strings.Contains(s.lower, "cancel") {
		return nil
	}
	result, err := a.tools.OrderCancel(ctx, order.OrderId, a.tools.Now())
	if err != nil {
		return err
	}
	s.cancel = &result
	s.toolsCalled = append(s.toolsCalled, ToolOrderCancel)
	return nil
}

// guardPolicy records the cancellation decision and flags requests that must be refused.
func (a *Agent) guardPolicy(s *runState) {
	if s.cancel != nil {
		s.policy = &PolicyDecision{CancelAllowed: s.cancel.Success}
		if !s.cancel.Success {
			s.policy.Reason = a.tools.windowExceededReason()
		}
	}

	if s.intent != IntentOther {
		return
	}
	if strings.Contains(s.lower, "discount") && strings.Contains(s.lower, "code") {
		s.guard = guardrailDiscountCode
		return
	}
	s.guard = guardrailOutOfScope
}

func (a *Agent) respond(s *runState) {
	switch s.intent {
	case IntentProductAssist:
		s.finalMessage = respondProducts(s)
	case IntentOrderHelp:
		s.finalMessage = a.respondOrder(s)
	default:
		s.finalMessage = respondGuardrail(s.guard)
	}
}

func formatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', -1, 64)
}

func respondProducts(s *runState) string {
	if len(s.products) == 0 {
		return "I couldn't find any dresses matching your criteria. Would you like to try a different search?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d dress(es) matching your criteria:\n\n", len(s.products))
	for i, p := range s.products {
		fmt.Fprintf(&b, "%d) %s (%s) in %s, available sizes: %s\n",
			i+1, p.Title, formatPrice(p.Price), p.Color, strings.Join(p.Sizes, ", "))
	}
	if s.size != nil {
		fmt.Fprintf(&b, "\nSize recommendation: %s - %s\n", s.size.RecommendedSize, s.size.Rationale)
	}
	if s.eta != nil {
		fmt.Fprintf(&b, "\nDelivery estimate: %d-%d days\n", s.eta.MinDays, s.eta.MaxDays)
	}
	b.WriteString("\nLet me know if you'd like more details about any of these options!")
	return b.String()
}

func (a *Agent) respondOrder(s *runState) string {
	if !s.orderRequested {
		return "I can help with that. Please share your order ID (for example A1001) and the email address used at checkout."
	}
	if s.order == nil {
		return "I couldn't find your order. Please check that the order ID and email address are correct."
	}

	if s.cancel != nil {
		if s.cancel.Success {
			return fmt.Sprintf("I've successfully cancelled your order %s. You should receive a confirmation email shortly.", s.order.OrderId)
		}
		window := int(a.tools.cancelWindow / time.Minute)
		return fmt.Sprintf("I'm unable to cancel order %s as it was placed more than %d minutes ago. ", s.order.OrderId, window) +
			fmt.Sprintf("Our policy allows cancellations only within the first %d minutes after purchase. ", window) +
			"Would you like to:\n1) Edit the shipping address instead?\n2) Receive store credit for future purchases?\n3) Speak with our support team for other options?"
	}

	return fmt.Sprintf("I found your order %s placed on %s. It contains %d item(s). How can I help you with this order?",
		s.order.OrderId, s.order.CreatedAt.Format("Jan 2, 2006"), len(s.order.Items))
}

func respondGuardrail(g guardrail) string {
	if g == guardrailDiscountCode {
		return "I can't provide discount codes that aren't in our system. However, you might enjoy our newsletter subscriber discount (10% off first order) or our seasonal sales. Would you like me to tell you more about these?"
	}
	return "I'm here to help with product recommendations and order assistance. How can I help you today?"
}
