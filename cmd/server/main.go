// Package main implements the entry point for the memory book server, which
// curates a subject's records into photo books and exports them as PDFs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/phrazzld/memorybook/internal/config"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"Run a database migration command (up, down, reset, status, version) and exit",
	)
	flag.Parse()

	cfg, l, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	if *migrateCmd != "" {
		if err := runMigrations(ctx, cfg, *migrateCmd, l); err != nil {
			l.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		return
	}

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		l.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.Migrate(ctx, db, postgres.MigrateUp, l); err != nil {
		_ = db.Close()
		l.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		_ = db.Close()
		l.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		l.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"entitlement_mode", cfg.Export.EntitlementMode)
	l.Debug("Draft store configuration",
		"redis_url_present", cfg.Redis.URL != "",
		"draft_ttl", cfg.Redis.DraftTTL)

	return cfg, l, nil
}

// runMigrations opens the database just long enough to run one goose command.
func runMigrations(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("Error closing database connection", "error", err)
		}
	}()

	return postgres.Migrate(ctx, db, command, l)
}
