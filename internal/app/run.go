package app

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// runUntilSignal runs loop in the background and blocks until SIGINT or
// SIGTERM, then cancels loop's context and waits for it to return.
func runUntilSignal(logger *zap.Logger, loop func(ctx context.Context)) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		loop(ctx)
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	<-done
}
