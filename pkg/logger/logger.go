package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Option configures New.
type Option func(*options)

type options struct {
	out        io.Writer
	extractors []ContextExtractor
}

// WithOutput sets the writer for the local handler. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithExtractors adds context extractors applied to every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// New builds a logger from cfg. When SentryDSN is set, warnings and errors
// are also sent to Sentry and errors open issues. A failed Sentry init is
// logged and the logger falls back to local output.
//
// Example:
//
//	log, err := logger.New(cfg.Log, logger.WithExtractors(middlewares.RequestIDExtractor()))
func New(cfg Config, opts ...Option) (*slog.Logger, error) {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var local slog.Handler
	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", FormatJSON:
		local = slog.NewJSONHandler(o.out, hopts)
	case FormatText:
		local = slog.NewTextHandler(o.out, hopts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Format)
	}

	if cfg.SentryDSN == "" {
		return slog.New(newContextHandler(local, o.extractors...)), nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("sentry init failed", slog.String("error", err.Error()))
		return slog.New(newContextHandler(local, o.extractors...)), nil
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(newContextHandler(fanout{local, remote}, o.extractors...)), nil
}

// Flush returns a shutdown hook that waits for buffered Sentry events.
// It is a no-op when Sentry was never initialized.
func Flush(timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		if sentry.CurrentHub().Client() == nil {
			return nil
		}
		if deadline, ok := ctx.Deadline(); ok {
			timeout = min(timeout, time.Until(deadline))
		}
		sentry.Flush(timeout)
		return nil
	}
}
