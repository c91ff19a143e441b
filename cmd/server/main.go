package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/utakatalp/league-engine/internal/api"
	"github.com/utakatalp/league-engine/internal/config"
	"github.com/utakatalp/league-engine/internal/logging"
	"github.com/utakatalp/league-engine/internal/metrics"
	"github.com/utakatalp/league-engine/internal/store"
)

const (
	appVersion      = "dev"
	defaultRoster   = "testdata/roster.yaml"
	readTimeout     = 10 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "league-engine",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", logging.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	recorder, shutdownMetrics, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		return fmt.Errorf("metrics setup: %w", err)
	}

	srv := api.NewServer(api.Options{
		Repo:           repo,
		Logger:         logger,
		Metrics:        recorder,
		Live:           cfg.LiveConfig(),
		Seed:           cfg.Simulation.Seed,
		Workers:        cfg.Simulation.Workers,
		OddsRuns:       cfg.Simulation.OddsRuns,
		SessionTTL:     cfg.Simulation.SessionTTL,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", logging.FieldError, err)
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown failed", logging.FieldError, err)
	}
	logger.Info("shutdown complete", logging.FieldCount, srv.CloseSessions())
	return nil
}

// openRepository connects to Postgres when DATABASE_URL is set and otherwise
// serves an in-memory league loaded from the roster file.
func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Repository, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := store.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if cfg.RosterFile != "" {
			if cfg.RosterReseed {
				if err := db.Reset(ctx); err != nil {
					db.Close()
					return nil, nil, err
				}
				logger.Warn("store wiped before reseeding")
			}
			if err := seedTeams(ctx, db, cfg.RosterFile, logger); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		logger.Info("using postgres store")
		return db, func() { db.Close() }, nil
	}

	path := cfg.RosterFile
	if path == "" {
		path = defaultRoster
	}
	mem := store.NewMemoryStore()
	if err := seedTeams(ctx, mem, path, logger); err != nil {
		return nil, nil, err
	}
	logger.Info("using memory store")
	return mem, func() {}, nil
}

func seedTeams(ctx context.Context, repo store.Repository, path string, logger *slog.Logger) error {
	teams, err := store.LoadRoster(path)
	if err != nil {
		return err
	}
	if err := repo.InsertTeams(ctx, teams); err != nil {
		return fmt.Errorf("seeding teams from %s: %w", path, err)
	}
	logger.Info("roster loaded", slog.String("file", path), slog.Int(logging.FieldTeams, len(teams)))
	return nil
}
