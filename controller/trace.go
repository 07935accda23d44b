package controller

import (
	"math"
	"net/http"
	"strconv"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/dto"
	"github.com/evoai/commerce-agent/model"
)

const (
	defaultTracePageSize = 20
	maxTracePageSize     = 100
)

// ListTraces pages stored agent traces, newest first. Query: p (0-based page), size, intent.
func ListTraces(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("p"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(c.Query("size"))
	if size <= 0 {
		size = defaultTracePageSize
	}
	if size > maxTracePageSize {
		size = maxTracePageSize
	}
	if maxPage := math.MaxInt32 / size; page > maxPage {
		page = maxPage
	}

	traces, total, err := model.ListAgentTraces(gmw.Ctx(c), c.Query("intent"), page*size, size)
	if err != nil {
		gmw.GetLogger(c).Error("failed to list agent traces", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to list traces",
		})
		return
	}

	items, err := dto.NewTraceSummaries(traces)
	if err != nil {
		gmw.GetLogger(c).Error("failed to convert agent traces", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to list traces",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"items": items,
			"total": total,
			"page":  page,
			"size":  size,
		},
	})
}

// GetTrace returns one stored agent trace by its trace id.
func GetTrace(c *gin.Context) {
	traceId := c.Param("trace_id")
	if traceId == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "trace_id parameter is required",
		})
		return
	}

	trace, err := model.GetAgentTrace(gmw.Ctx(c), traceId)
	if errors.Is(err, model.ErrTraceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "trace not found",
		})
		return
	}
	if err != nil {
		gmw.GetLogger(c).Error("failed to get agent trace",
			zap.Error(err),
			zap.String("trace_id", traceId))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to get trace",
		})
		return
	}

	out, err := dto.NewTrace(trace)
	if err != nil {
		gmw.GetLogger(c).Error("failed to convert agent trace", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to get trace",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    out,
	})
}
