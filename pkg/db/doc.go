// Package db connects to PostgreSQL through pgx and applies goose
// migrations. It backs the Postgres driver of the state store.
//
//	pool, err := db.Connect(ctx, cfg.Database, logger)
//	if err != nil {
//	    return err
//	}
//	if err := db.Migrate(ctx, pool, kv.PostgresMigrations, "migrations", cfg.Database.MigrationsTable, logger); err != nil {
//	    return err
//	}
//
// Connect retries the first ping. Healthcheck and Shutdown return closures
// for the readiness probe and the server's shutdown hooks.
package db
