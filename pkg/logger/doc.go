// Package logger builds the service's slog logger.
//
// [New] picks a JSON or text handler and a level from [Config], adds
// [ContextExtractor] attributes such as the request ID to every record, and
// fans warnings and errors out to Sentry when SENTRY_DSN is set.
//
//	log, err := logger.New(logger.Config{Level: "debug", Format: "text"},
//		logger.WithExtractors(middlewares.RequestIDExtractor()),
//	)
//	if err != nil {
//		return err
//	}
//	log.InfoContext(ctx, "warmup email sent", slog.Int("sent_today", 3))
//	// time=... level=INFO msg="warmup email sent" sent_today=3 request_id=0195...
//
// Register [Flush] as a shutdown hook so queued Sentry events are delivered
// before the process exits.
package logger
