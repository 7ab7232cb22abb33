package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/linkbio/backend/config"
	"github.com/pageza/linkbio/backend/internal/app"
	"github.com/pageza/linkbio/backend/internal/logging"
	"github.com/pageza/linkbio/backend/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Run serves the API until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Env.String())
	logger.Info("starting linkbio api", "env", cfg.Env.String())

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logging.LogError(logger, "failed to close connections", err)
		}
	}()

	handler, err := application.Router()
	if err != nil {
		return err
	}

	return server.New(cfg.Addr(), handler, logger).Run(ctx)
}
