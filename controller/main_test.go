package controller

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evoai/commerce-agent/agent"
	"github.com/evoai/commerce-agent/common/logger"
	"github.com/evoai/commerce-agent/common/random"
	"github.com/evoai/commerce-agent/middleware"
	"github.com/evoai/commerce-agent/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupControllerDB(t *testing.T) {
	t.Helper()

	dsn := "file:" + random.GetUUID() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.Product{}, &model.Order{}, &model.AgentTrace{}))

	original := model.DB
	model.DB = gdb
	model.InvalidateProductCache()
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
		model.DB = original
		model.InvalidateProductCache()
	})

	ctx := gmw.SetLogger(context.Background(), logger.Logger)
	require.NoError(t, model.SeedCatalog(ctx, testNow))
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	setupControllerDB(t)

	tools := agent.NewToolset(func() time.Time { return testNow }, 60*time.Minute, time.Hour)
	ac := NewAgentController(agent.New(agent.NewRouter(nil), tools), agent.NewRegistry(tools))

	server := gin.New()
	server.Use(func(c *gin.Context) {
		gmw.SetLogger(c, logger.Logger)
		c.Next()
	}, middleware.RequestId())

	server.GET("/api/status", GetStatus)
	server.POST("/api/chat", ac.Chat)
	server.POST("/api/tools", ac.InvokeTool)
	server.GET("/api/tools", ac.DemoTool)
	server.GET("/api/traces", ListTraces)
	server.GET("/api/traces/:trace_id", GetTrace)

	// trace writes must land before the database is swapped back
	t.Cleanup(func() { waitForTraceWrites(t) })
	return server
}

func doJSON(server http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}
