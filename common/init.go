package common

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Laisky/zap"

	"github.com/evoai/commerce-agent/common/config"
	"github.com/evoai/commerce-agent/common/logger"
)

// Version is overwritten at build time with -ldflags "-X github.com/evoai/commerce-agent/common.Version=...".
var Version = "v0.0.0"

// StartTime is the process start, in unix seconds.
var StartTime = time.Now().Unix()

var (
	Port         = flag.Int("port", 3000, "the listening port")
	PrintVersion = flag.Bool("version", false, "print version and exit")
	PrintHelp    = flag.Bool("help", false, "print help and exit")
	LogDir       = flag.String("log-dir", "", "specify the log directory")
)

func printHelp() {
	fmt.Println("EvoAI commerce agent " + Version)
	fmt.Println("Usage: evoai [--port <port>] [--log-dir <log directory>] [--version] [--help]")
}

// Init parses flags and prepares the log directory.
func Init() {
	flag.Parse()

	if *PrintVersion {
		fmt.Println(Version)
		os.Exit(0)
	}
	if *PrintHelp {
		printHelp()
		os.Exit(0)
	}

	SQLitePath = config.SQLitePath
	if *LogDir == "" {
		return
	}

	expanded := expandLogDirPath(*LogDir)
	lg := logger.Logger.With(zap.String("log_dir", expanded))

	expanded, err := filepath.Abs(expanded)
	if err != nil {
		lg.Fatal("failed to get absolute log dir", zap.Error(err))
	}
	if err = os.MkdirAll(expanded, 0o755); err != nil {
		lg.Fatal("failed to create log dir", zap.Error(err))
	}

	lg.Info("set log dir", zap.String("abs_log_dir", expanded))
	logger.LogDir = expanded
	*LogDir = expanded
}

// ListenPort prefers the PORT environment variable over the --port flag.
func ListenPort() string {
	if config.ServerPort != "" {
		return config.ServerPort
	}
	return fmt.Sprintf("%d", *Port)
}
