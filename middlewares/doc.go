// Package middlewares provides net/http middleware for the warmup API.
//
// All middleware has the chi-compatible signature func(http.Handler) http.Handler.
//
// # Request ID
//
// RequestID reuses X-Request-ID or X-Correlation-ID from upstream, or
// generates a UUIDv7, and echoes it in the response. Pair it with
// RequestIDExtractor so every log line made with the request context
// carries request_id:
//
//	log, _ := logger.New(cfg.Log, logger.WithExtractors(middlewares.RequestIDExtractor()))
//	r.Use(middlewares.RequestID())
//
// # Recover
//
// Recover logs panics with their stack and responds 500 through an
// ErrorHandler. DefaultErrorHandler writes {"status":"error","message":"..."}.
//
// # Logging and Timeout
//
// Logging writes one record per request with method, path, status and
// duration. Timeout puts a deadline on the request context.
//
// # Throttle
//
// Throttle applies a process-wide token bucket from golang.org/x/time/rate
// and answers 429 with Retry-After when it is empty.
package middlewares
