package kv

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mailwarm/pkg/db"
)

// PostgresMigrations holds the goose migrations for the kv_entries table.
// Apply them with db.Migrate(ctx, pool, kv.PostgresMigrations, "migrations", ...).
//
//go:embed migrations/*.sql
var PostgresMigrations embed.FS

// pgConn is the part of *pgxpool.Pool the store queries through.
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a store backed by the kv_entries table.
type Postgres struct {
	pool  *pgxpool.Pool
	conn  pgConn
	now   func() time.Time
	owned bool
}

// NewPostgres wraps an existing pool. The pool is not closed by Close;
// its lifecycle belongs to the caller (see pkg/db.Shutdown).
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, conn: pool, now: time.Now}
}

// NewOwnedPostgres wraps a pool that Close will also close.
func NewOwnedPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, conn: pool, now: time.Now, owned: true}
}

// Get retrieves a value by key, ignoring expired rows.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.conn.QueryRow(ctx, `
		SELECT value FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
	`, key, p.now().UTC()).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set upserts a value, then prunes expired rows on a best-effort basis.
func (p *Postgres) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	now := p.now().UTC()
	var exp *time.Time
	if t := expiresAt(now, ttl); !t.IsZero() {
		exp = &t
	}

	if _, err := p.conn.Exec(ctx, `
		INSERT INTO kv_entries (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at
	`, key, value, exp, now); err != nil {
		return err
	}

	// Get filters expired rows; a failed prune is retried on the next write.
	_ = p.prune(ctx, now)
	return nil
}

// prune deletes rows that expired at or before now.
func (p *Postgres) prune(ctx context.Context, now time.Time) error {
	_, err := p.conn.Exec(ctx, `DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	return err
}

// Delete removes a key.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.conn.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return db.Healthcheck(p.pool)(ctx)
}

// Close closes the pool when the store owns it.
func (p *Postgres) Close() error {
	if p.owned {
		return db.Shutdown(p.pool)(context.Background())
	}
	return nil
}

var _ Store = (*Postgres)(nil)
