package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/memorybook/internal/assembly"
	"github.com/phrazzld/memorybook/internal/config"
	"github.com/phrazzld/memorybook/internal/domain/curation"
	"github.com/phrazzld/memorybook/internal/events"
	"github.com/phrazzld/memorybook/internal/platform/converter"
	"github.com/phrazzld/memorybook/internal/platform/memory"
	"github.com/phrazzld/memorybook/internal/platform/postgres"
	"github.com/phrazzld/memorybook/internal/platform/redis"
	"github.com/phrazzld/memorybook/internal/platform/share"
	"github.com/phrazzld/memorybook/internal/render"
	"github.com/phrazzld/memorybook/internal/service"
	"github.com/phrazzld/memorybook/internal/store"
	"github.com/phrazzld/memorybook/internal/theme"
	goredis "github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// redis is nil when drafts are kept in memory.
	redis *goredis.Client

	themes      *theme.Registry
	bookService service.BookService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established and migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	drafts, redisClient, err := setupDraftStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.redis = redisClient

	entitlements, err := entitlementSource(
		cfg.Export.EntitlementMode,
		postgres.NewPostgresEntitlementStore(db, logger),
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.themes = theme.NewRegistry()
	app.bookService, err = newBookService(
		cfg,
		logger,
		app.themes,
		postgres.NewPostgresSubjectReader(db, logger),
		drafts,
		entitlements,
	)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupDraftStore picks Redis when a URL is configured and falls back to an
// in-process store otherwise. The returned client is nil for the fallback.
func setupDraftStore(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (store.DraftStore, *goredis.Client, error) {
	if cfg.Redis.URL == "" {
		logger.Info("Keeping book drafts in memory", "draft_ttl", cfg.Redis.DraftTTL)
		return memory.NewDraftStore(cfg.Redis.DraftTTL), nil, nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis.URL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return redis.NewDraftStore(client, cfg.Redis.DraftTTL, logger), client, nil
}

// entitlementSource maps the configured entitlement mode to a source.
func entitlementSource(
	mode string,
	entitlements store.EntitlementStore,
	logger *slog.Logger,
) (service.EntitlementSource, error) {
	switch mode {
	case config.EntitlementDatabase:
		return service.StoreEntitlement(entitlements, logger), nil
	case config.EntitlementAlways:
		logger.Warn("PDF export is enabled for every subject")
		return service.FixedEntitlement(true), nil
	case config.EntitlementNever:
		return service.FixedEntitlement(false), nil
	default:
		return nil, fmt.Errorf("unknown entitlement mode %q", mode)
	}
}

// newBookService assembles the curation, rendering and export pipeline
// behind the book service.
func newBookService(
	cfg *config.Config,
	logger *slog.Logger,
	themes *theme.Registry,
	subjects store.SubjectReader,
	drafts store.DraftStore,
	entitlements service.EntitlementSource,
) (service.BookService, error) {
	renderer, err := render.New(themes, render.WithLocale(cfg.Render.Locale))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	curator := curation.NewServiceWithParams(curation.NewParams(curation.ParamsConfig{
		DayCap:  cfg.Curation.DayCap,
		BookCap: cfg.Curation.BookCap,
	}))

	pdf, err := converter.NewHTTPConverter(converter.Config{
		BaseURL:   cfg.Export.ConverterURL,
		OutputDir: cfg.Export.OutputDir,
		Timeout:   cfg.Export.ConverterTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF converter: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))

	books, err := service.NewBookService(service.Dependencies{
		Subjects:          subjects,
		Drafts:            drafts,
		Assembler:         assembly.New(curator, renderer.Dates().Long),
		Themes:            themes,
		Renderer:          renderer,
		Converter:         pdf,
		Sink:              share.NewDirectorySink(cfg.Export.OutputDir, logger),
		Entitlements:      entitlements,
		Events:            emitter,
		DefaultLayout:     cfg.Render.DefaultLayout,
		DefaultColorTheme: cfg.Render.DefaultColorTheme,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create book service: %w", err)
	}

	logger.Info("Book service initialized",
		"locale", cfg.Render.Locale,
		"day_cap", cfg.Curation.DayCap,
		"book_cap", cfg.Curation.BookCap)
	return books, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
