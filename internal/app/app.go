// Package app wires configuration, storage and services for the cmd binaries.
package app

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pocket/internal/cache"
	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	"github.com/MrJamesThe3rd/pocket/internal/database"
	"github.com/MrJamesThe3rd/pocket/internal/export"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/kv"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/pocket/internal/matching/store"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	recordStore "github.com/MrJamesThe3rd/pocket/internal/record/store"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

type App struct {
	Config     *config.Config
	Categories *category.Hierarchy
	Records    *record.Service
	Stats      *stats.Service
	Matching   *matching.Service
	Import     *importer.Service
	Export     *export.Service
	StatsCache *cache.LRUCache[uint64, any]

	db *sql.DB
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	return config.Load()
}

// SetupLogger installs a text handler at the configured level as the default logger.
func SetupLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return logger
}

// New opens the configured storage and builds every service on top of it.
func New(cfg *config.Config) (*App, error) {
	categories := category.Default()

	if cfg.Storage.Categories != "" {
		h, err := category.LoadFile(cfg.Storage.Categories)
		if err != nil {
			return nil, fmt.Errorf("loading categories: %w", err)
		}

		categories = h
	}

	backend, db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	var (
		recordService   = record.NewService(recordStore.New(backend), categories, slog.Default())
		statsCache      = cache.NewLRUCache[uint64, any](cfg.Cache.Size, cfg.Cache.TTL)
		statsService    = stats.NewService(recordService, categories, statsCache, nil)
		matchingService = matching.NewService(matchingStore.New(backend))
	)

	// Other processes can write to a SQL store without bumping our revision.
	if cfg.Storage.Driver != database.DriverMemory {
		statsService.WithoutMemo()
	}

	return &App{
		Config:     cfg,
		Categories: categories,
		Records:    recordService,
		Stats:      statsService,
		Matching:   matchingService,
		Import:     importer.NewService(matchingService, recordService),
		Export:     export.NewService(statsService, categories),
		StatsCache: statsCache,
		db:         db,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}

func openStore(cfg *config.Config) (kv.Store, *sql.DB, error) {
	if cfg.Storage.Driver == database.DriverMemory {
		slog.Info("using in-memory storage")
		return kv.NewMemory(), nil, nil
	}

	db, err := database.Open(cfg.Storage.Driver, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}

	dialect := kv.DialectSQLite
	if cfg.Storage.Driver == database.DriverPostgres {
		dialect = kv.DialectPostgres
	}

	slog.Info("storage ready", "driver", cfg.Storage.Driver)

	return kv.NewSQL(db, dialect), db, nil
}
