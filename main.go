package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/evoai/commerce-agent/agent"
	"github.com/evoai/commerce-agent/common"
	"github.com/evoai/commerce-agent/common/config"
	"github.com/evoai/commerce-agent/common/graceful"
	"github.com/evoai/commerce-agent/common/logger"
	"github.com/evoai/commerce-agent/controller"
	"github.com/evoai/commerce-agent/middleware"
	"github.com/evoai/commerce-agent/model"
	"github.com/evoai/commerce-agent/router"
)

func main() {
	common.Init()
	logger.SetupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = gmw.SetLogger(ctx, logger.Logger)

	logger.Logger.Info("EvoAI commerce agent started", zap.String("version", common.Version))
	logger.StartLogRetentionCleaner(ctx, config.LogRetentionDays, logger.LogDir)

	if config.GinMode != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := model.InitDB(ctx); err != nil {
		logger.Logger.Fatal("database init error", zap.Error(err))
	}
	defer func() {
		if err := model.CloseDB(); err != nil {
			logger.Logger.Error("failed to close database", zap.Error(err))
		}
	}()

	if err := common.InitRedisClient(ctx); err != nil {
		logger.Logger.Fatal("failed to initialize Redis", zap.Error(err))
	}
	defer func() {
		if err := common.CloseRedis(); err != nil {
			logger.Logger.Error("failed to close Redis", zap.Error(err))
		}
	}()

	model.StartTraceRetentionCleaner(ctx, config.TraceRetentionDays)

	tools := agent.NewToolset(nil, config.CancelWindow, config.ETACacheTTL)
	classifier := agent.NewLLMClassifier(config.IntentLLMAPIBase, config.IntentLLMAPIKey,
		config.IntentLLMModel, config.IntentLLMTimeout)
	if classifier == nil {
		logger.Logger.Info("intent model not configured, using keyword routing")
	}
	ac := controller.NewAgentController(
		agent.New(agent.NewRouter(classifier), tools),
		agent.NewRegistry(tools),
	)

	server := newServer(ac)
	if err := serve(ctx, server); err != nil {
		logger.Logger.Error("server stopped with error", zap.Error(err))
	}
}

func newServer(ac *controller.AgentController) *gin.Engine {
	server := gin.New()
	server.RedirectTrailingSlash = false
	server.Use(
		gmw.NewLoggerMiddleware(
			gmw.WithLoggerMwColored(),
			gmw.WithLevel(logger.Level().String()),
			gmw.WithLogger(logger.Logger.Named("gin")),
		),
		middleware.RequestId(),
		middleware.PanicRecover(),
		cors.New(corsConfig()),
	)
	if config.EnableGzip {
		server.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	if config.EnablePrometheusMetrics {
		server.Use(middleware.RequestMetrics())
		if config.AdminJWTSecret != "" {
			server.GET("/metrics", middleware.AdminAuth(), gin.WrapH(promhttp.Handler()))
		} else {
			server.GET("/metrics", gin.WrapH(promhttp.Handler()))
		}
		logger.Logger.Info("Prometheus metrics endpoint available at /metrics")
	}

	router.SetRouter(server, ac)
	return server
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if config.CORSAllowedOrigins == "" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range strings.Split(config.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	return cfg
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight requests
// and pending trace writes before returning.
func serve(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + common.ListenPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Logger.Info("server started", zap.String("address", "http://localhost"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen and serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info("shutdown signal received, draining")
		graceful.SetDraining()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		drainErr := graceful.Drain(shutdownCtx)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown http server")
		}
		if drainErr != nil {
			return errors.Wrap(drainErr, "drain")
		}
		return nil
	})

	return g.Wait()
}
