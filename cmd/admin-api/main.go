package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gitarena/gitarena/internal/admin/dashboard"
	"github.com/gitarena/gitarena/internal/admin/stats"
	"github.com/gitarena/gitarena/internal/admin/telemetry"
	"github.com/gitarena/gitarena/internal/admin/versions"
	"github.com/gitarena/gitarena/internal/api"
	"github.com/gitarena/gitarena/internal/config"
	"github.com/gitarena/gitarena/internal/db"
	"github.com/gitarena/gitarena/internal/logging"
	"github.com/gitarena/gitarena/internal/metrics"
)

// Version is stamped at build time via -ldflags "-X main.Version=...".
var Version = "0.0.0-dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The telemetry collector anchors process uptime, so it is constructed
	// before anything that can block.
	collector := telemetry.NewCollector(logger)

	if cfg.MigrationsDir != "" {
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	metrics.Register()
	metrics.RegisterPoolMetrics(pool)

	// Component versions are resolved exactly once here and cached for the
	// process lifetime. The git engine components come from the linked
	// git2go module when the full platform binary carries it; a standalone
	// dashboard build reports them as unknown.
	registry := versions.Resolve(ctx, logger,
		versions.Static(dashboard.ComponentGitArena, "GitArena", Version),
		versions.GoRuntime(dashboard.ComponentCompiler, "compiler toolchain"),
		versions.Postgres(dashboard.ComponentPostgres, "PostgreSQL server", pool),
		versions.Module(dashboard.ComponentLibgit2, "libgit2 git engine", "github.com/libgit2/git2go/v34"),
		versions.Module(dashboard.ComponentGit2Rs, "libgit2 bindings", "github.com/libgit2/git2go/v34"),
	)

	builder := dashboard.NewBuilder(
		stats.NewService(pool),
		collector,
		registry,
		cfg.SourceTimeout,
		logger,
	)

	srv := api.NewServer(logger, pool, builder)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting admin API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
