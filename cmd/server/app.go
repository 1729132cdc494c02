package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-study/internal/backoff"
	"github.com/phrazzld/scry-study/internal/chunking"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/metrics"
	"github.com/phrazzld/scry-study/internal/platform/gemini"
	"github.com/phrazzld/scry-study/internal/platform/memstore"
	"github.com/phrazzld/scry-study/internal/platform/postgres"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/summary"
	"github.com/phrazzld/scry-study/internal/task"
)

// Database drivers accepted in database.driver.
const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB // nil with the memory driver

	users     store.UserStore
	documents store.DocumentStore
	summaries store.SummaryStore

	jwtService      auth.JWTService
	generator       generation.Client
	userService     service.UserService
	documentService service.DocumentService
	orchestrator    *summary.Orchestrator
	pool            *task.Pool
	metrics         *metrics.Recorder
}

// appOption overrides a dependency newApplication would otherwise build.
type appOption func(*application)

// withGenerationClient replaces the Gemini client.
func withGenerationClient(c generation.Client) appOption {
	return func(app *application) { app.generator = c }
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...appOption) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(app)
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}

	if app.generator == nil {
		app.generator, err = gemini.NewClient(ctx, logger.With("component", "gemini_client"), cfg.LLM)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
		}
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	app.userService, err = service.NewUserService(app.users, hasher, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.documentService, err = service.NewDocumentService(app.documents, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create document service: %w", err)
	}

	app.orchestrator, err = summary.NewOrchestrator(
		app.generator,
		app.summaries,
		app.documents,
		summaryConfig(cfg),
		logger,
		summary.WithMetrics(app.metrics),
		summary.WithRetryObserver(app.metrics),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create summary orchestrator: %w", err)
	}

	app.pool = task.NewPool(task.PoolConfig{
		MinWorkers:  cfg.Task.MinWorkers,
		MaxWorkers:  cfg.Task.MaxWorkers,
		QueueSize:   cfg.Task.QueueSize,
		IdleTimeout: time.Duration(cfg.Task.IdleTimeoutSeconds) * time.Second,
	}, logger, task.WithPoolMetrics(app.metrics))

	logger.Info("application initialized",
		slog.String("model", app.generator.ModelName()),
		slog.Int("min_workers", cfg.Task.MinWorkers),
		slog.Int("max_workers", cfg.Task.MaxWorkers))
	return app, nil
}

// setupStores opens the configured persistence backend.
func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case driverMemory:
		mem := memstore.New()
		app.users = mem.Users()
		app.documents = mem.Documents()
		app.summaries = mem.Summaries()
		app.logger.Warn("using in-memory storage; data is lost on restart")
		return nil
	case driverPostgres:
		db, err := postgres.Open(ctx, app.config.Database.URL, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.users = postgres.NewUserStore(db, app.logger)
		app.documents = postgres.NewDocumentStore(db, app.logger)
		app.summaries = postgres.NewSummaryStore(db, app.logger)
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
}

// summaryConfig maps the loaded configuration onto the orchestrator's settings.
func summaryConfig(cfg *config.Config) summary.Config {
	return summary.Config{
		Chunking: chunking.Policy{
			ChunkSize: cfg.Chunking.ChunkSize,
			Overlap:   cfg.Chunking.Overlap,
			MaxChunks: cfg.Chunking.MaxChunks,
		},
		Retry: backoff.Policy{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: time.Duration(cfg.Retry.InitialDelayMs) * time.Millisecond,
			Multiplier:   cfg.Retry.BackoffMultiplier,
		},
		TokenThreshold:   cfg.Chunking.TokenThreshold,
		MaxDocumentChars: cfg.Summary.MaxDocumentChars,
		ParallelChunks:   cfg.Summary.ParallelChunks,
		ChunkConcurrency: cfg.Summary.ChunkConcurrency,
	}
}

// Run serves HTTP until ctx ends, then shuts down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.pool.Stop(ctx); err != nil {
			app.logger.Error("task pool did not drain", slog.String("error", err.Error()))
		}
		cancel()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
