// cmd/gemfinder/app.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"gemfinder/internal/appstate"
	"gemfinder/internal/common/config"
	"gemfinder/internal/common/database"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/devbackend"
	"gemfinder/internal/gems"
	"gemfinder/internal/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every client-side command needs.
type app struct {
	cfg      *config.Config
	zap      *zap.Logger
	log      logger.Logger
	client   *gems.Client
	state    *appstate.Container
	redis    *database.RedisClient
	renderer *view.Renderer
	out      io.Writer
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog)

	client, err := gems.NewClient(gems.LoadConfig(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("gems client: %w", err)
	}

	a := &app{
		cfg:      cfg,
		zap:      zapLog,
		log:      log,
		client:   client,
		renderer: view.NewRenderer(),
		out:      cmd.OutOrStdout(),
	}

	var persister appstate.Persister = appstate.NewMemoryPersister()
	if cfg.Database.Redis.Address != "" {
		a.redis = database.NewRedis(cfg.Database.Redis)
		persister = appstate.NewRedisPersister(a.redis.Client, cfg.Database.Redis.KeyPrefix)
	}
	a.state = appstate.New(persister, client, log)

	if err := a.state.Restore(cmd.Context()); err != nil {
		log.Warn("could not restore app state", map[string]interface{}{"error": err.Error()})
	}
	a.applySessionCookie()
	return a, nil
}

// applySessionCookie hands the signed-in user to the API as a cookie.
func (a *app) applySessionCookie() {
	session, ok := a.state.Session()
	if !ok {
		return
	}
	a.client.HTTP().SetCookies([]*http.Cookie{{
		Name:  devbackend.SessionCookie,
		Value: session.UserID,
		Path:  "/",
	}})
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.zap.Sync()
}

func (a *app) print(s string) {
	fmt.Fprintln(a.out, s)
}

// withApp adapts a command body that needs an app.
func withApp(run func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd.Context(), a, cmd, args)
	}
}
