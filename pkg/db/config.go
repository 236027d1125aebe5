package db

import "time"

// Config holds the Postgres settings for the state store's SQL backend.
// The pool is kept small: the service issues at most a handful of queries
// per trigger.
type Config struct {
	ConnectionString string `env:"DATABASE_CONN_URL"`
	MigrationsTable  string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"mailwarm_migrations"`

	MaxConns        int32         `env:"DATABASE_MAX_CONNS" envDefault:"4"`
	MinConns        int32         `env:"DATABASE_MIN_CONNS" envDefault:"0"`
	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`

	ConnectRetries int           `env:"DATABASE_CONNECT_RETRIES" envDefault:"3"`
	RetryBackoff   time.Duration `env:"DATABASE_RETRY_BACKOFF" envDefault:"2s"`
}

// Enabled reports whether a connection string is configured.
func (c Config) Enabled() bool {
	return c.ConnectionString != ""
}
