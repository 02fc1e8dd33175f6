// Package app wires configuration to adapters, use cases, and lifecycle.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"DailyDigest/internal/config"
	"DailyDigest/internal/httpapi"
	"DailyDigest/internal/infrastructure/llm"
	"DailyDigest/internal/infrastructure/providers"
	"DailyDigest/internal/infrastructure/render"
	"DailyDigest/internal/infrastructure/scheduler"
	"DailyDigest/internal/infrastructure/storage"
	"DailyDigest/internal/logging"
	"DailyDigest/internal/usecase"
)

const shutdownGrace = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	repo      *storage.PostgresRepository
	server    *http.Server
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repo := storage.NewPostgresRepository(db)

	news := providers.NewNewsClient(cfg.NewsAPI, baseLogger.With("component", "provider.newsapi"))
	tmdb := providers.NewTMDBClient(cfg.TMDB, baseLogger.With("component", "provider.tmdb"))
	rawg := providers.NewRAWGClient(cfg.RAWG, baseLogger.With("component", "provider.rawg"))
	summarizer := llm.NewSummarizer(cfg.Ollama, baseLogger.With("component", "summarizer"))
	renderer := render.NewHTMLRenderer(baseLogger.With("component", "renderer"))

	composer := usecase.NewComposer(usecase.ComposerDeps{
		News:              news,
		Movies:            tmdb,
		TV:                tmdb,
		Games:             rawg,
		Summarizer:        summarizer,
		Renderer:          renderer,
		Repository:        repo,
		Logger:            baseLogger.With("component", "composer"),
		GenerationTimeout: cfg.Digest.GenerationTimeout,
	})

	var digestScheduler *usecase.Scheduler
	if cfg.Scheduler.Enabled {
		driver := scheduler.NewDailyScheduler(cfg.Scheduler.At, cfg.Scheduler.Location())
		digestScheduler = usecase.NewScheduler(driver, composer, baseLogger.With("component", "scheduler"))
	}

	handler := httpapi.NewHandler(composer, news, tmdb, rawg, baseLogger.With("component", "httpapi"))
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpapi.NewRouter(handler),
	}

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		repo:      repo,
		server:    server,
		scheduler: digestScheduler,
	}, nil
}

// Run prepares storage, starts the scheduler and the HTTP listener, and
// blocks until the context is cancelled or the listener fails.
func (a *Application) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := a.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			if err := a.scheduler.Stop(context.Background()); err != nil {
				a.logger.Error("scheduler stop failed", "error", err)
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Server.Addr)
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
