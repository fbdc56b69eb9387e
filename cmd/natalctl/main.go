// Command natalctl computes charts offline and load-tests a running natal
// service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/natal/pkg/logger"
)

func main() {
	// Logs go to stderr so stdout carries only command output.
	if err := logger.InitWith(os.Stderr, "text"); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
