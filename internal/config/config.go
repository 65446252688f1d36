package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/pocket/internal/database"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pocket"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Storage struct {
		Driver     database.Driver `envconfig:"STORAGE_DRIVER" default:"sqlite"`
		SQLitePath string          `envconfig:"SQLITE_PATH" default:"data/pocket.db"`
		// Categories overrides the embedded taxonomy when set.
		Categories string `envconfig:"CATEGORIES_FILE"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pocket"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Cache struct {
		Size int           `envconfig:"CACHE_SIZE" default:"128"`
		TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	}

	Log struct {
		Level slog.Level `envconfig:"LOG_LEVEL" default:"INFO"`
		File  string     `envconfig:"LOG_FILE" default:"pocket.log"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DSN returns the data source name for the configured storage driver.
func (c *Config) DSN() string {
	switch c.Storage.Driver {
	case database.DriverPostgres:
		return c.ConnectionString()
	case database.DriverSQLite:
		return c.Storage.SQLitePath
	default:
		return ""
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case database.DriverMemory, database.DriverPostgres:
	case database.DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required for the sqlite driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.App.Port)
	}

	if c.Cache.Size <= 0 {
		return fmt.Errorf("%w: cache size must be positive", ErrInvalidConfig)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
