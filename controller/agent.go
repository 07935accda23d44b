package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/agent"
	"github.com/evoai/commerce-agent/common/graceful"
	"github.com/evoai/commerce-agent/common/helper"
	"github.com/evoai/commerce-agent/dto"
	"github.com/evoai/commerce-agent/model"
)

// AgentController serves the chat and tools endpoints.
type AgentController struct {
	agent    *agent.Agent
	registry *agent.Registry
}

func NewAgentController(a *agent.Agent, registry *agent.Registry) *AgentController {
	return &AgentController{agent: a, registry: registry}
}

type chatRequest struct {
	Message string `json:"message"`
}

type toolRequest struct {
	Tool       string          `json:"tool"`
	Parameters json.RawMessage `json:"parameters"`
}

// Chat runs the agent on one message and answers with the trace and the final message.
// The trace is persisted after the response is written.
func (ac *AgentController) Chat(c *gin.Context) {
	ctx := gmw.Ctx(c)
	lg := gmw.GetLogger(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		lg.Debug("invalid chat body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	result, err := ac.agent.Run(ctx, req.Message)
	if err != nil {
		lg.Error("agent run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	record := result.ToModel(c.GetString(helper.RequestIdKey), req.Message)
	bgCtx := gmw.SetLogger(context.Background(), lg)
	graceful.GoCritical(bgCtx, "persistAgentTrace", func(ctx context.Context) {
		if err := model.CreateAgentTrace(ctx, record); err != nil {
			gmw.GetLogger(ctx).Error("persist agent trace", zap.Error(err))
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"trace":    result.Trace,
		"response": result.Response,
	})
}

// InvokeTool runs a single tool with caller supplied parameters.
func (ac *AgentController) InvokeTool(c *gin.Context) {
	ctx := gmw.Ctx(c)

	var req toolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	result, err := ac.registry.Invoke(ctx, req.Tool, req.Parameters)
	if err != nil {
		respondToolError(c, req.Tool, err)
		return
	}

	out, err := presentToolResult(result)
	if err != nil {
		respondToolError(c, req.Tool, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}

// DemoTool runs ?tool= with fixed sample parameters.
func (ac *AgentController) DemoTool(c *gin.Context) {
	tool := c.Query("tool")
	result, err := ac.registry.InvokeDemo(gmw.Ctx(c), tool)
	if err != nil {
		respondToolError(c, tool, err)
		return
	}

	out, err := presentToolResult(result)
	if err != nil {
		respondToolError(c, tool, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tool":      tool,
		"result":    out,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// presentToolResult converts model values into their API shapes.
func presentToolResult(result any) (any, error) {
	if order, ok := result.(*model.Order); ok && order != nil {
		return dto.NewOrder(order)
	}
	return result, nil
}

func respondToolError(c *gin.Context, tool string, err error) {
	var invErr *agent.InvocationError
	if errors.As(err, &invErr) {
		gmw.GetLogger(c).Debug("tool invocation rejected",
			zap.String("tool", tool),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invErr.Message})
		return
	}

	gmw.GetLogger(c).Error("tool invocation failed",
		zap.String("tool", tool),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
