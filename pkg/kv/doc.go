// Package kv provides the string key-value store that persists warmup
// counters between triggers.
//
// Every backend implements [Store]: Get returns [ErrNotFound] for missing or
// expired keys, and Set takes a TTL where a positive duration expires the key
// and zero or negative keeps it until overwritten.
//
// # Backends
//
//   - [REST]: Redis-over-HTTP services such as Vercel KV and Upstash
//     (KV_REST_API_URL, KV_REST_API_TOKEN).
//   - [File]: a JSON document on local disk (LOCAL_STATE_PATH) for development.
//   - [Redis]: a go-redis client (REDIS_URL).
//   - [Postgres]: the kv_entries table over a pgx pool (DATABASE_CONN_URL),
//     created by the embedded goose migrations in [PostgresMigrations].
//   - [Memory]: an in-process map for tests and single-process runs.
//
// [Open] picks a backend from [Config]. With STATE_STORE unset it prefers
// REST, then Redis, then Postgres, and falls back to the local file.
//
//	store, err := kv.Open(ctx, cfg.Store, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
// Backends that implement [Pinger] are probed by [Healthcheck].
package kv
