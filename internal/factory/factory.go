package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/dicegame-go/internal/api"
	"github.com/mcoot/dicegame-go/internal/dependencies/clock"
	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/realtime"
	"github.com/mcoot/dicegame-go/internal/services/game"
	"github.com/mcoot/dicegame-go/internal/services/registry"
	"github.com/mcoot/dicegame-go/internal/services/turn"
	"github.com/mcoot/dicegame-go/internal/storage"
	"github.com/mcoot/dicegame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/dicegame-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry   *registry.Registry
	Machine    *turn.Machine
	Controller *game.Controller
	Hub        *realtime.Hub

	// Router serves the full HTTP API
	Router http.Handler

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ShowStarted includes started games in the default lobby listing
	ShowStarted bool
}

// New creates a new application with all dependencies wired.
// The realtime hub is already running; call Shutdown to stop it.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.ShowStarted, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	showStarted bool,
	logger *slog.Logger,
) *App {
	hub := realtime.NewHub(logger)
	go hub.Run()

	reg := registry.New(store, clk, rnd, logger)
	machine := turn.New(rnd)
	controller := game.NewController(reg, machine, hub, logger)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Controller:  controller,
		Hub:         hub,
		Random:      rnd,
		ShowStarted: showStarted,
	})

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Registry:   reg,
		Machine:    machine,
		Controller: controller,
		Hub:        hub,
		Router:     router,
		logger:     logger,
	}
}

// Shutdown stops the hub, disconnecting every client, and releases storage
func (a *App) Shutdown() error {
	a.Hub.Close()

	if closer, ok := a.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Error("failed to close storage", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}
