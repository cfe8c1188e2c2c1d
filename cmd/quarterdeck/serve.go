// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	authpg "github.com/quarterdeck/quarterdeck/internal/auth/postgres"
	"github.com/quarterdeck/quarterdeck/internal/config"
	"github.com/quarterdeck/quarterdeck/internal/docker"
	"github.com/quarterdeck/quarterdeck/internal/links"
	linkspg "github.com/quarterdeck/quarterdeck/internal/links/postgres"
	"github.com/quarterdeck/quarterdeck/internal/logging"
	"github.com/quarterdeck/quarterdeck/internal/observability"
	"github.com/quarterdeck/quarterdeck/internal/store"
	"github.com/quarterdeck/quarterdeck/internal/web"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long: `Start the dashboard HTTP server together with its metrics and
health endpoints. The database must already be migrated (see "migrate").`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logging.SetDefault("quarterdeck", version, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))
	logger := slog.Default()

	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	sessions, err := auth.NewSessionManager(cfg.SessionSecret)
	if err != nil {
		return err
	}

	accountRepo := authpg.NewAccountRepository(pool)
	linkRepo := linkspg.NewLinkRepository(pool)
	hasher := auth.NewBcryptHasher()

	authSvc, err := auth.NewService(accountRepo, sessions, hasher)
	if err != nil {
		return err
	}
	linkSvc, err := links.NewService(linkRepo, accountRepo, hasher)
	if err != nil {
		return err
	}

	// Observability first: its readiness answers for the whole process.
	obsServer := observability.NewServer(cfg.ObservabilityAddr, func() bool {
		return pool.Ping(ctx) == nil
	})
	obsErrCh, err := obsServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, obsErrCh, "observability")

	router := web.NewRouter(&web.RouterDeps{
		Auth:         authSvc,
		Links:        linkSvc,
		Containers:   docker.NewStatusReader(logger),
		CookieName:   cfg.CookieName,
		SecureCookie: cfg.IsProduction(),
		Logger:       logger,
		Metrics:      obsServer.Metrics(),
	})

	webServer := web.NewServer(cfg.ListenAddr, router)
	webErrCh, err := webServer.Start()
	if err != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		if stopErr := obsServer.Stop(stopCtx); stopErr != nil {
			logger.Warn("failed to stop observability server during cleanup", "error", stopErr)
		}
		return err
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")

	cmd.Println("Dashboard server started")
	logger.Info("quarterdeck ready",
		"listen_addr", webServer.Addr(),
		"observability_addr", obsServer.Addr(),
		"environment", cfg.Environment,
	)

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := webServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping web server", "error", err)
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping observability server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// monitorServerErrors watches a server's error channel and cancels the
// context on failure so the whole process shuts down rather than limping
// along without one of its servers.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
