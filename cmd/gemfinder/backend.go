// cmd/gemfinder/backend.go
package main

import (
	"context"
	"fmt"
	"time"

	"gemfinder/internal/common/config"
	"gemfinder/internal/common/database"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/common/observability"
	"gemfinder/internal/devbackend"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeBackendCmd() *cobra.Command {
	var migrate, seed bool
	cmd := &cobra.Command{
		Use:   "serve-backend",
		Short: "Run the PostgreSQL-backed gems API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBackend(cmd.Context(), migrate, seed)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create tables before serving")
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo categories and gems")
	return cmd
}

func runBackend(ctx context.Context, migrate, seed bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := config.ValidateServer(cfg); err != nil {
		return err
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	var pg *database.PostgresClient
	err = retryWithBackoff(ctx, func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			_ = pg.Close()
			return err
		}
		return nil
	}, 10, time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return err
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected", zap.String("host", cfg.Database.Postgres.Host))

	store := devbackend.NewStore(pg.DB)
	if migrate || seed {
		if err := store.Migrate(ctx, seed); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		zapLog.Info("schema ready", zap.Bool("seeded", seed))
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
		obs = nil
	} else {
		defer obs.Shutdown()
	}

	server := devbackend.NewServer(store, devbackend.LoadConfig(cfg), log, obs)
	return server.Run(ctx)
}

// retryWithBackoff runs operation until it succeeds, doubling the delay after
// each failure. It gives up early when ctx is done.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}

		log.Warn(fmt.Sprintf("%s failed, retrying", operationName),
			zap.Error(err),
			zap.Int("attempt", i+1),
			zap.Int("maxRetries", maxRetries),
			zap.Duration("nextRetryIn", delay),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", operationName, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
