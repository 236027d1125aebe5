// Package server exposes the warmup gate over HTTP.
//
// Routes:
//
//	GET /              service banner
//	GET /api/warmup    one gate evaluation: 200 sent or skipped, 500 error
//	GET /api/stats     counters snapshot
//	GET /health/live   liveness probe
//	GET /health/ready  readiness probe (store ping, configuration)
//
// Concurrent /api/warmup requests in one process share a single evaluation.
// Manual triggers are throttled by TRIGGER_RATE_PER_MINUTE.
package server
