// Package app wires configuration, storage, services, the HTTP surface and
// the inbox watcher into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"golang.org/x/oauth2"

	"github.com/fairway-collective/foursome/app/handlers"
	"github.com/fairway-collective/foursome/app/metrics"
	inboxservice "github.com/fairway-collective/foursome/app/modules/inbox/application"
	"github.com/fairway-collective/foursome/app/modules/inbox/infrastructure/gmailapi"
	playerservice "github.com/fairway-collective/foursome/app/modules/player/application"
	roundservice "github.com/fairway-collective/foursome/app/modules/round/application"
	"github.com/fairway-collective/foursome/config"
	"github.com/fairway-collective/foursome/db/bundb"
)

// App holds the application's long-lived components.
type App struct {
	Cfg    *config.Config
	logger *slog.Logger

	db       *bundb.DBService
	server   *http.Server
	pool     *pgxpool.Pool
	riverCli *river.Client[pgx.Tx]
}

// NewApp initializes the application with the necessary services and
// configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	engineMetrics := metrics.New(registry)

	playerSvc := playerservice.NewPlayerService(dbService.PlayerDB, dbService.GetDB(), logger)
	roundSvc := roundservice.NewRoundService(
		dbService.RoundDB,
		dbService.GetDB(),
		dbService.PlayerDB,
		logger,
		nil, // real clock
		engineMetrics,
		nil, // tracing wired by deployments that want it
	)

	handler := handlers.New(roundSvc, playerSvc, logger)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handlers.NewRouter(handler, cfg.Auth.JWTSecret, registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	a := &App{
		Cfg:    cfg,
		logger: logger,
		db:     dbService,
		server: server,
	}

	if cfg.Inbox.Enabled {
		if err := a.initInboxWatcher(ctx, roundSvc); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// initInboxWatcher sets up the periodic inbox poll as a River job backed by
// its own pgx pool.
func (a *App) initInboxWatcher(ctx context.Context, roundSvc roundservice.Service) error {
	source := gmailapi.NewClient(ctx, gmailapi.Config{
		BaseURL:           a.Cfg.Inbox.BaseURL,
		Query:             a.Cfg.Inbox.Query,
		TokenSource:       oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.Cfg.Inbox.Token}),
		RequestsPerSecond: a.Cfg.Inbox.RequestsPerSecond,
	}, a.logger)

	watcher := inboxservice.NewWatcher(source, roundSvc, a.logger)

	pool, err := pgxpool.New(ctx, a.Cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for river: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &inboxservice.PollWorker{Watcher: watcher})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(a.Cfg.Inbox.PollInterval),
				func() (river.JobArgs, *river.InsertOpts) {
					return inboxservice.PollArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		pool.Close()
		return fmt.Errorf("failed to create river client: %w", err)
	}

	a.pool = pool
	a.riverCli = client
	return nil
}

// Run starts the HTTP server and the inbox watcher, then blocks until ctx is
// canceled.
func (a *App) Run(ctx context.Context) error {
	if a.riverCli != nil {
		if err := a.riverCli.Start(ctx); err != nil {
			return fmt.Errorf("failed to start river client: %w", err)
		}
		a.logger.Info("Inbox watcher scheduled", slog.Duration("interval", a.Cfg.Inbox.PollInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// Shutdown stops the server, the watcher and the database connections.
func (a *App) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if a.riverCli != nil {
		if err := a.riverCli.Stop(shutdownCtx); err != nil {
			a.logger.Error("River client stop failed", slog.Any("error", err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if err := a.db.GetDB().Close(); err != nil {
		a.logger.Error("Database close failed", slog.Any("error", err))
	}
}
