package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pushfold/cmd/pushfold/shared"
	"github.com/lox/pushfold/internal/profile"
	"github.com/lox/pushfold/internal/randutil"
	"github.com/lox/pushfold/internal/server"
	"github.com/lox/pushfold/strategy"
)

// ServeCmd runs the decision API.
type ServeCmd struct {
	Config   string `kong:"default='pushfold.hcl',help='HCL config file (defaults apply when missing)'"`
	Addr     string `kong:"help='Listen address, overrides the config (host:port)'"`
	LogLevel string `kong:"help='Log level, overrides the config'"`
	JSONLogs bool   `kong:"name='json-logs',help='Write structured JSON logs'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed for mixed strategies (optional)'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, c.JSONLogs)
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	if c.Seed != nil {
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
	} else {
		logger.Info().Int64("seed", seed).Msg("Using random seed")
	}

	store := profile.NewStore(cfg.Profiles.Dir)
	active, err := store.Default(cfg.Profiles.Default, cfg.Profiles.FallbackTable)
	if err != nil {
		return err
	}
	holder := strategy.NewHolder(active)

	srv, err := server.New(cfg, store, holder, randutil.NewLocked(seed), logger)
	if err != nil {
		return err
	}
	interval, _ := cfg.ReloadInterval()
	reloader := server.NewReloader(holder, interval, quartz.NewReal(), logger)

	addr := cfg.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := shared.SignalContext(context.Background(), logger)
	defer cancel()

	logger.Info().
		Str("address", addr).
		Str("profile", active.Name).
		Str("profiles_dir", cfg.Profiles.Dir).
		Float64("min_depth", cfg.Depth.Min).
		Float64("max_depth", cfg.Depth.Max).
		Dur("reload_interval", interval).
		Msg("Starting pushfold server")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reloader.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
