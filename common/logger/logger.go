package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/evoai/commerce-agent/common/config"
)

var (
	Logger glog.Logger
	// LogDir is set by common.Init once the --log-dir flag has been resolved.
	LogDir string

	setupLogOnce sync.Once
	initLogOnce  sync.Once
)

func init() {
	initLogger()
}

func initLogger() {
	initLogOnce.Do(func() {
		var err error
		Logger, err = glog.NewConsoleWithName("evoai", Level())
		if err != nil {
			panic(fmt.Sprintf("failed to create logger: %+v", err))
		}
	})
}

// Level returns the configured log level.
func Level() glog.Level {
	if config.DebugEnabled {
		return glog.LevelDebug
	}
	return glog.LevelInfo
}

// SetupLogger mirrors gin output into a log file under LogDir.
func SetupLogger() {
	setupLogOnce.Do(func() {
		if LogDir == "" {
			return
		}

		logPath := logFilePath(LogDir, time.Now())
		fd, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal("failed to open log file")
		}
		gin.DefaultWriter = io.MultiWriter(os.Stdout, fd)
		gin.DefaultErrorWriter = io.MultiWriter(os.Stderr, fd)

		hostname, err := os.Hostname()
		if err != nil {
			Logger.Panic("get hostname", zap.Error(err))
		}
		Logger = Logger.With(zap.String("host", hostname))
		Logger.Info("log file configured", zap.String("path", logPath))
	})
}

func logFilePath(dir string, now time.Time) string {
	if config.OnlyOneLogFile {
		return filepath.Join(dir, "evoai.log")
	}
	return filepath.Join(dir, fmt.Sprintf("evoai-%s.log", now.Format("20060102")))
}
