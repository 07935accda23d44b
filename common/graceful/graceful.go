// Package graceful tracks in-flight HTTP requests and post-response work so shutdown can wait for both.
package graceful

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Laisky/zap"

	"github.com/evoai/commerce-agent/common/logger"
)

var (
	inFlight atomic.Int64
	draining atomic.Bool
	critical sync.WaitGroup
)

// BeginRequest marks a request as in flight. Call the returned func when it completes.
func BeginRequest() func() {
	inFlight.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { inFlight.Add(-1) })
	}
}

// InFlight reports the current number of tracked requests.
func InFlight() int64 { return inFlight.Load() }

// GoCritical runs fn in a tracked goroutine. Drain waits for it.
// Trace persistence after a chat response is the main user.
func GoCritical(ctx context.Context, name string, fn func(context.Context)) {
	critical.Add(1)
	go func() {
		defer critical.Done()
		start := time.Now()
		fn(ctx)
		logger.Logger.Debug("critical task done",
			zap.String("name", name),
			zap.Duration("elapsed", time.Since(start)))
	}()
}

// Drain waits until no request is in flight and then until every critical task has returned,
// or until ctx is done. Requests may start critical tasks up to the moment they finish, so the
// task wait begins only once the in-flight count has reached zero.
func Drain(ctx context.Context) error {
	SetDraining()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for inFlight.Load() > 0 {
		select {
		case <-ctx.Done():
			logger.Logger.Error("graceful drain timeout",
				zap.Int64("in_flight_requests", inFlight.Load()),
				zap.Bool("critical_tasks_done", false))
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := WaitCritical(ctx); err != nil {
		logger.Logger.Error("graceful drain timeout",
			zap.Int64("in_flight_requests", inFlight.Load()),
			zap.Bool("critical_tasks_done", false))
		return err
	}

	logger.Logger.Info("graceful drain complete")
	return nil
}

// WaitCritical blocks until every critical task started so far has returned, or ctx is done.
// It does not stop new requests.
func WaitCritical(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		critical.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetDraining flips the draining flag. New requests are rejected afterwards.
func SetDraining() { draining.Store(true) }

func IsDraining() bool { return draining.Load() }

// resetForTests clears the draining flag.
func resetForTests() { draining.Store(false) }
