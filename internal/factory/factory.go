package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/scoretracker/internal/api/sse"
	"github.com/mcoot/scoretracker/internal/dependencies/clock"
	"github.com/mcoot/scoretracker/internal/dependencies/ids"
	"github.com/mcoot/scoretracker/internal/services/round"
	"github.com/mcoot/scoretracker/internal/services/scoring"
	"github.com/mcoot/scoretracker/internal/services/session"
	"github.com/mcoot/scoretracker/internal/storage"
	"github.com/mcoot/scoretracker/internal/storage/database"
	"github.com/mcoot/scoretracker/internal/storage/memory"
	redisstorage "github.com/mcoot/scoretracker/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeDatabase = "database"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	RoundService      *round.Service
	ScoringService    *scoring.Service
	SessionController *session.Controller
	Hub               *sse.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "database")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseConfig holds database settings (required if StorageType is "database")
	DatabaseConfig *database.Config
}

// New creates a new application with all dependencies wired and the
// persisted session loaded. A backend that cannot be reached does not fail
// startup: the session comes up degraded and runs in memory only.
// Only an invalid configuration is returned as an error.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if err := validateStorage(cfg); err != nil {
		return nil, err
	}

	store, err := newStorage(cfg)
	if err != nil {
		logger.Warn("storage backend unavailable, starting in memory only",
			slog.String("storage", cfg.StorageType),
			slog.String("error", err.Error()),
		)
		store = storage.NewUnavailable(err)
	}

	app := newWithDependencies(store, clock.New(), ids.New(), logger)
	app.SessionController.Load(ctx)
	return app, nil
}

func validateStorage(cfg Config) error {
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		return nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return errors.New("RedisConfig required when StorageType is redis")
		}
		return nil
	case StorageTypeDatabase:
		if cfg.DatabaseConfig == nil {
			return errors.New("DatabaseConfig required when StorageType is database")
		}
		return nil
	default:
		return errors.New("invalid StorageType: must be 'memory', 'redis' or 'database'")
	}
}

// newStorage connects the configured backend; cfg must already be valid
func newStorage(cfg Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case StorageTypeRedis:
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeDatabase:
		return database.New(*cfg.DatabaseConfig)
	default:
		return memory.New(), nil
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, gen ids.Generator, logger *slog.Logger) *App {
	hub := sse.NewHub(logger)
	go hub.Run()

	roundService := round.New(clk, gen)
	scoringService := scoring.New()
	sessionController := session.NewController(store, roundService, scoringService, clk, gen, hub, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		IDs:               gen,
		RoundService:      roundService,
		ScoringService:    scoringService,
		SessionController: sessionController,
		Hub:               hub,
	}
}

// Close stops the event hub and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	return a.Storage.Close()
}
