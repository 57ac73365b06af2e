// Forecourt - vehicle inventory platform
//
// This is the main entry point for the Forecourt application: a
// server-rendered site where visitors browse the vehicle catalogue,
// customers manage their own accounts, and staff maintain the inventory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/forecourthq/forecourt/migrations"

	"github.com/forecourthq/forecourt/internal/auth"
	"github.com/forecourthq/forecourt/internal/infrastructure/config"
	"github.com/forecourthq/forecourt/internal/infrastructure/database"
	"github.com/forecourthq/forecourt/internal/infrastructure/logging"
	"github.com/forecourthq/forecourt/internal/inventory"
	"github.com/forecourthq/forecourt/internal/web"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Forecourt",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	accountRepo := auth.NewAccountRepository(db.DB)
	inventoryRepo := inventory.NewRepository(db.DB)

	// Seed the first administrator on an empty accounts table so a fresh
	// deployment is not locked out of staff pages.
	generatedPassword, err := auth.SeedAdmin(ctx, accountRepo, auth.Bootstrap{
		FirstName: cfg.Bootstrap.AdminFirstName,
		LastName:  cfg.Bootstrap.AdminLastName,
		Email:     cfg.Bootstrap.AdminEmail,
		Password:  cfg.Bootstrap.AdminPassword,
	}, log.Logger)
	if err != nil {
		return fmt.Errorf("seeding administrator: %w", err)
	}
	if generatedPassword != "" {
		// Also printed plainly for operators running without log capture.
		fmt.Fprintf(os.Stdout, "Generated administrator password: %s\n", generatedPassword)
	}

	codec := auth.NewCodec(cfg.Session.Secret, cfg.Session.TTL())

	server, err := web.New(web.Deps{
		Config:    cfg,
		Logger:    log,
		Accounts:  accountRepo,
		Inventory: inventoryRepo,
		Codec:     codec,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting web server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping web server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order: web server first, then
	// the database.

	log.Info("Forecourt stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FORECOURT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FORECOURT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure is up before declaring the service
// ready.
func healthCheck(ctx context.Context, db *database.DB, server *web.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}
