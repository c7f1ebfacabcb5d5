package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"
)

// rootContext is cancelled on SIGINT or SIGTERM so an interrupted run still reports what finished
func rootContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signalChan
		logger.Log.Info("Received signal to stop: ", sig)
		cancel()
	}()

	return ctx
}
