package config

import (
	"strings"
	"time"

	// loads .env before the variables below read the environment
	_ "github.com/joho/godotenv/autoload"

	"github.com/evoai/commerce-agent/common/env"
)

var (
	// ServerPort overrides the --port flag when running inside container or PaaS environments.
	ServerPort = strings.TrimSpace(env.String("PORT", ""))
	// GinMode allows forcing Gin into release mode (or other modes) without recompiling.
	GinMode = strings.TrimSpace(env.String("GIN_MODE", ""))

	// DebugEnabled toggles verbose structured logging when DEBUG=true.
	DebugEnabled = env.Bool("DEBUG", false)
	// DebugSQLEnabled toggles per-query SQL logging when DEBUG_SQL=true.
	DebugSQLEnabled = env.Bool("DEBUG_SQL", false)
	// OnlyOneLogFile writes every day into the same log file instead of daily rotated names.
	OnlyOneLogFile = env.Bool("ONLY_ONE_LOG_FILE", false)
	// LogRetentionDays deletes rotated log files older than this many days. Zero disables the cleaner.
	LogRetentionDays = env.Int("LOG_RETENTION_DAYS", 0)

	// SQLDSN selects MySQL or PostgreSQL. SQLite is used when empty.
	SQLDSN = strings.TrimSpace(env.String("SQL_DSN", ""))
	// SQLitePath is the database file used when SQL_DSN is empty.
	SQLitePath = env.String("SQLITE_PATH", "evoai.db")
	// SQLiteBusyTimeout is passed as _busy_timeout (milliseconds) to the sqlite driver.
	SQLiteBusyTimeout = env.Int("SQLITE_BUSY_TIMEOUT", 3000)
	SQLMaxIdleConns   = env.Int("SQL_MAX_IDLE_CONNS", 20)
	SQLMaxOpenConns   = env.Int("SQL_MAX_OPEN_CONNS", 100)
	// SQLMaxLifetimeSeconds bounds how long a pooled connection may be reused.
	SQLMaxLifetimeSeconds = env.Int("SQL_MAX_LIFETIME", 60)

	// RedisConnString enables the Redis backed caches, e.g. redis://localhost:6379/0.
	RedisConnString = strings.TrimSpace(env.String("REDIS_CONN_STRING", ""))

	// EnablePrometheusMetrics exposes /metrics and records agent counters.
	EnablePrometheusMetrics = env.Bool("ENABLE_PROMETHEUS_METRICS", true)
	// EnableGzip compresses JSON responses.
	EnableGzip = env.Bool("ENABLE_GZIP", true)
	// CORSAllowedOrigins is a comma separated allow list. Empty allows every origin.
	CORSAllowedOrigins = strings.TrimSpace(env.String("CORS_ALLOWED_ORIGINS", ""))

	// AdminJWTSecret signs admin bearer tokens. Admin routes are disabled while it is empty.
	AdminJWTSecret = strings.TrimSpace(env.String("ADMIN_JWT_SECRET", ""))

	// IntentLLMAPIBase points at an OpenAI compatible /v1 base used for intent classification.
	// The keyword heuristic is used when either the base or the key is empty.
	IntentLLMAPIBase = strings.TrimSuffix(strings.TrimSpace(env.String("INTENT_LLM_API_BASE", "")), "/")
	IntentLLMAPIKey  = strings.TrimSpace(env.String("INTENT_LLM_API_KEY", env.String("OPENAI_API_KEY", "")))
	IntentLLMModel   = env.String("INTENT_LLM_MODEL", "gpt-3.5-turbo")
	IntentLLMTimeout = env.Seconds("INTENT_LLM_TIMEOUT", 10)

	// CancelWindow is how long after placement an order may still be cancelled.
	CancelWindow = time.Duration(env.Int("CANCEL_WINDOW_MINUTES", 60)) * time.Minute

	// CatalogCacheTTL controls the in-process product snapshot lifetime.
	CatalogCacheTTL = env.Seconds("CATALOG_CACHE_SECONDS", 60)
	// ETACacheTTL controls how long delivery estimates stay in Redis.
	ETACacheTTL = env.Seconds("ETA_CACHE_SECONDS", 3600)

	// SeedCatalog inserts the demo products and orders on startup.
	SeedCatalog = env.Bool("SEED_CATALOG", true)
	// TraceRetentionDays removes stored agent traces older than this many days. Zero keeps them forever.
	TraceRetentionDays = env.Int("TRACE_RETENTION_DAYS", 30)

	// ShutdownTimeout bounds graceful draining on SIGINT/SIGTERM.
	ShutdownTimeout = env.Seconds("SHUTDOWN_TIMEOUT", 30)
)

var (
	// SmokeTestAPIBase is the agent API root targeted by cmd/test.
	SmokeTestAPIBase = strings.TrimSpace(env.String("EVOAI_API_BASE", "http://localhost:3000/api"))
	// SmokeTestTimeout bounds each smoke test request. Zero leaves the http.Client without a timeout.
	SmokeTestTimeout = env.Seconds("EVOAI_TEST_TIMEOUT", 0)
)
