package model

import (
	"context"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"gorm.io/gorm"
)

// ErrTraceNotFound is returned by GetAgentTrace for unknown ids.
var ErrTraceNotFound = errors.New("trace not found")

// maxStoredMessageLength bounds the persisted user message.
const maxStoredMessageLength = 4096

// TracePolicy mirrors the policy guard outcome of a run.
type TracePolicy struct {
	CancelAllowed bool   `json:"cancel_allowed"`
	Reason        string `json:"reason,omitempty"`
}

// AgentTrace is the persisted decision record of one chat run.
type AgentTrace struct {
	Id             int          `json:"id" gorm:"primaryKey;autoIncrement"`
	TraceId        string       `json:"trace_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	RequestId      string       `json:"request_id" gorm:"type:varchar(64);index"`
	Message        string       `json:"message" gorm:"type:text"`
	Intent         string       `json:"intent" gorm:"type:varchar(32);index"`
	ToolsCalled    []string     `json:"tools_called" gorm:"serializer:json;type:text"`
	Evidence       []any        `json:"evidence" gorm:"serializer:json;type:text"`
	PolicyDecision *TracePolicy `json:"policy_decision" gorm:"serializer:json;type:text"`
	FinalMessage   string       `json:"final_message" gorm:"type:text"`
	LatencyMs      int64        `json:"latency_ms" gorm:"bigint;default:0"`
	CreatedAt      int64        `json:"created_at" gorm:"bigint;autoCreateTime:milli;index"`
}

// CreateAgentTrace stores a run. Over-long messages are truncated before insert.
func CreateAgentTrace(ctx context.Context, trace *AgentTrace) error {
	lg := gmw.GetLogger(ctx).With(zap.String("trace_id", trace.TraceId))
	if trace.TraceId == "" {
		return errors.New("trace id is required")
	}

	if len(trace.Message) > maxStoredMessageLength {
		lg.Debug("trace message truncated", zap.Int("original_length", len(trace.Message)))
		trace.Message = truncateUTF8(trace.Message, maxStoredMessageLength)
	}

	err := writeWithBusyRetry(ctx, "create agent trace", func() error {
		return DB.WithContext(ctx).Create(trace).Error
	})
	if err != nil {
		return errors.Wrapf(err, "create agent trace %s", trace.TraceId)
	}

	lg.Debug("agent trace stored", zap.String("intent", trace.Intent))
	return nil
}

func GetAgentTrace(ctx context.Context, traceId string) (*AgentTrace, error) {
	var trace AgentTrace
	err := DB.WithContext(ctx).Where("trace_id = ?", traceId).First(&trace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTraceNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get agent trace %s", traceId)
	}
	return &trace, nil
}

// ListAgentTraces returns traces newest first, optionally filtered by intent.
func ListAgentTraces(ctx context.Context, intent string, offset, limit int) ([]AgentTrace, int64, error) {
	scoped := func() *gorm.DB {
		query := DB.WithContext(ctx).Model(&AgentTrace{})
		if intent != "" {
			query = query.Where("intent = ?", intent)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count agent traces")
	}

	var traces []AgentTrace
	if err := scoped().Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&traces).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list agent traces")
	}
	return traces, total, nil
}

// truncateUTF8 cuts s to at most maxBytes without splitting a multibyte character.
func truncateUTF8(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
