package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/common"
	"github.com/evoai/commerce-agent/common/config"
)

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version":               common.Version,
			"start_time":            common.StartTime,
			"cancel_window_minutes": int(config.CancelWindow.Minutes()),
			"intent_llm":            config.IntentLLMAPIBase != "" && config.IntentLLMAPIKey != "",
		},
	})
}
