// Package main is the entry point of the superscript CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/superscript-dev/superscript/cmd/superscript/app"
	"github.com/superscript-dev/superscript/internal/logger"
)

func main() {
	// Logs go to stderr to keep stdout for command output
	logger.Setup(false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.NewRootCmd().ExecuteContext(ctx); err != nil {
		app.ReportError(os.Stderr, err)
		slog.Debug("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
