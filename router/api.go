package router

import (
	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/controller"
	"github.com/evoai/commerce-agent/middleware"
)

// SetApiRouter registers the /api routes.
func SetApiRouter(server *gin.Engine, ac *controller.AgentController) {
	apiRouter := server.Group("/api")
	apiRouter.Use(middleware.TrackInFlight())
	{
		apiRouter.GET("/status", controller.GetStatus)
		apiRouter.POST("/chat", ac.Chat)

		toolRoute := apiRouter.Group("/tools")
		{
			toolRoute.POST("", ac.InvokeTool)
			toolRoute.GET("", ac.DemoTool)
		}

		traceRoute := apiRouter.Group("/traces")
		traceRoute.Use(middleware.AdminAuth())
		{
			traceRoute.GET("", controller.ListTraces)
			traceRoute.GET("/:trace_id", controller.GetTrace)
		}
	}
}
