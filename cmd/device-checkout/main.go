// Device Checkout - shared hardware reservation service
//
// This is the main entry point for the Device Checkout application: a small
// web service for claiming and returning shared test hardware. Devices are
// grouped into pools; reservations are validated against the Slack directory
// with a local custom-owner override registry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/driftlab/device-checkout/migrations"

	"github.com/driftlab/device-checkout/internal/api"
	"github.com/driftlab/device-checkout/internal/device"
	"github.com/driftlab/device-checkout/internal/directory"
	"github.com/driftlab/device-checkout/internal/infrastructure/config"
	"github.com/driftlab/device-checkout/internal/infrastructure/database"
	"github.com/driftlab/device-checkout/internal/infrastructure/logging"
	"github.com/driftlab/device-checkout/internal/owner"
	"github.com/driftlab/device-checkout/internal/pool"
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
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
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
	// Load .env if present; real env vars take precedence either way.
	//nolint:errcheck // A missing .env file is the normal case
	godotenv.Load()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Device Checkout",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
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

	// Open database
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

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Directory: Slack when a token is configured, otherwise a static
	// empty directory (custom owners remain usable).
	var dir directory.Directory
	if cfg.Slack.Token != "" {
		dir = directory.NewSlackClient(cfg.Slack, log)
		log.Info("slack directory enabled")
	} else {
		dir = &directory.Static{}
		log.Warn("no slack token configured; owner validation uses custom owners only")
	}

	// Repositories and services
	deviceRepo := device.NewSQLiteRepository(db.DB)
	poolRepo := pool.NewSQLiteRepository(db.DB)
	ownerRepo := owner.NewSQLiteRepository(db.DB)
	ownerSvc := owner.NewService(ownerRepo, dir, log)

	// WebSocket hub carries reservation events to open device boards.
	hub := api.NewHub(cfg.WebSocket, log)

	engine := device.NewEngine(deviceRepo, ownerRepo, dir, hub, log)

	// API server
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Devices: deviceRepo,
		Pools:   poolRepo,
		Owners:  ownerSvc,
		Engine:  engine,
		Hub:     hub,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("Device Checkout ready",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	// Block until shutdown signal
	<-ctx.Done()

	log.Info("Device Checkout stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses DEVICECHECKOUT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("DEVICECHECKOUT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
