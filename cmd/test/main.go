// Command test is a smoke test for a running EvoAI commerce agent. It sends the demo
// chat messages and tool invocations to the API and prints what comes back.
//
// Case failures are reported in the output and the summary table only; the exit
// code is non-zero solely when the runner cannot be configured.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
)

func main() {
	logger, err := glog.NewConsoleWithName("evoai-test", glog.LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %+v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting smoke test",
		zap.String("base_url", cfg.APIBase),
		zap.Duration("timeout", cfg.Timeout))

	r := newRunner(cfg.APIBase, &http.Client{Timeout: cfg.Timeout}, os.Stdout, logger)
	results := r.runAll(ctx, defaultChatCases(), defaultToolCases())

	s := summarize(results)
	logger.Info("smoke test finished",
		zap.Int("cases", s.total),
		zap.Int("passed", s.passed),
		zap.Int("http_errors", s.httpErrors),
		zap.Int("transport_errors", s.transportErrors))
}
