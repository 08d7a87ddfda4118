package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/fermatbench/internal/app"
	"github.com/agbru/fermatbench/internal/config"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/logging"
	"github.com/agbru/fermatbench/internal/worker"
)

func main() {
	if os.Getenv(worker.EnvWorker) != "" {
		os.Exit(serveWorker())
	}
	application := app.New(os.Stdout, os.Stderr)
	os.Exit(application.Run(context.Background(), os.Args[1:]))
}

// serveWorker runs this process as a process-pool worker until its stdin
// is closed.
func serveWorker() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewConsoleLogger(os.Stderr, os.Getenv(config.EnvPrefix+"LOG_LEVEL")).
		With(logging.Int("pid", os.Getpid()))
	if err := worker.ServeStdio(ctx, fermat.NewDefaultRegistry(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		return 1
	}
	return 0
}
