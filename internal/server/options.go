package server

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/mailwarm/pkg/health"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	checks        health.Checks
	shutdownHooks []func(context.Context) error
}

// WithLogger sets the logger used for requests and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHealthCheck adds a readiness check.
func WithHealthCheck(name string, check health.CheckFunc) Option {
	return func(o *options) {
		if check != nil {
			o.checks[name] = check
		}
	}
}

// WithShutdownHook registers a hook run after the listener stops,
// in registration order. Store and logger flush hooks go here.
func WithShutdownHook(hook func(context.Context) error) Option {
	return func(o *options) {
		if hook != nil {
			o.shutdownHooks = append(o.shutdownHooks, hook)
		}
	}
}
