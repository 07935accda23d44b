package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/controller"
)

func SetRouter(server *gin.Engine, ac *controller.AgentController) {
	SetApiRouter(server, ac)
	server.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
