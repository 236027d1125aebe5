package kv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/mailwarm/pkg/db"
	"github.com/dmitrymomot/mailwarm/pkg/redis"
)

// Driver names accepted by Open.
const (
	DriverREST     = "rest"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config selects and configures a store backend.
// When Driver is empty it is detected from the other settings.
type Config struct {
	Driver   string `env:"STATE_STORE"`
	FilePath string `env:"LOCAL_STATE_PATH"`
	REST     RESTConfig
	Redis    redis.Config
	Database db.Config
}

// ResolveDriver returns the backend Open will use.
// Detection order: REST credentials, REDIS_URL, DATABASE_CONN_URL, local file.
func (c Config) ResolveDriver() string {
	if d := strings.ToLower(strings.TrimSpace(c.Driver)); d != "" {
		return d
	}
	switch {
	case c.REST.Enabled():
		return DriverREST
	case c.Redis.Enabled():
		return DriverRedis
	case c.Database.Enabled():
		return DriverPostgres
	default:
		return DriverFile
	}
}

// Open connects the configured backend. The returned store owns any
// connection it opened; closing the store releases it.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	driver := cfg.ResolveDriver()
	log := logger.With(slog.String("driver", driver))

	var (
		store Store
		err   error
	)
	switch driver {
	case DriverREST:
		store, err = NewREST(cfg.REST)
	case DriverFile:
		f := NewFile(cfg.FilePath)
		log = log.With(slog.String("path", f.Path()))
		store = f
	case DriverMemory:
		store = NewMemory()
	case DriverRedis:
		store, err = openRedis(ctx, cfg.Redis, logger)
	case DriverPostgres:
		store, err = openPostgres(ctx, cfg.Database, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "state store opened")
	return store, nil
}

func openRedis(ctx context.Context, cfg redis.Config, logger *slog.Logger) (Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: REDIS_URL is required", ErrNotConfigured)
	}
	client, err := redis.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewOwnedRedis(client), nil
}

func openPostgres(ctx context.Context, cfg db.Config, logger *slog.Logger) (Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: DATABASE_CONN_URL is required", ErrNotConfigured)
	}
	pool, err := db.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool, PostgresMigrations, "migrations", cfg.MigrationsTable, logger); err != nil {
		pool.Close()
		return nil, err
	}
	return NewOwnedPostgres(pool), nil
}
