package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/mailwarm/internal/config"
	"github.com/dmitrymomot/mailwarm/internal/scheduler"
	"github.com/dmitrymomot/mailwarm/internal/server"
	"github.com/dmitrymomot/mailwarm/internal/warmup"
	"github.com/dmitrymomot/mailwarm/middlewares"
	"github.com/dmitrymomot/mailwarm/pkg/kv"
	"github.com/dmitrymomot/mailwarm/pkg/logger"
	"github.com/dmitrymomot/mailwarm/pkg/mailer"
	"github.com/dmitrymomot/mailwarm/pkg/mailer/resend"
	"github.com/dmitrymomot/mailwarm/pkg/mailer/smtp"
)

const flushTimeout = 2 * time.Second

// Option overrides a component New would otherwise build from config.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	logOutput io.Writer
	store     kv.Store
	sender    mailer.Sender
	gateOpts  []warmup.Option
}

// WithLogger uses l instead of building one from cfg.Log.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLogOutput sets where the built logger writes. Default: os.Stderr,
// which keeps stdout free for command output.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

// WithStore uses s instead of opening the configured backend.
// The app closes it on Close.
func WithStore(s kv.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithSender uses s instead of the configured mail transport.
func WithSender(s mailer.Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithGateOptions passes extra options to the gate.
func WithGateOptions(opts ...warmup.Option) Option {
	return func(o *options) {
		o.gateOpts = append(o.gateOpts, opts...)
	}
}

// App holds the wired components shared by every command.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Store  kv.Store
	Gate   *warmup.Gate

	hooks []func(context.Context) error
}

// New wires logger, store, mail transport and gate from cfg.
// Missing mailbox or transport credentials do not fail New; the gate
// reports them on every trigger and through the readiness probe.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := &options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: o.logger}
	if a.Logger == nil {
		l, err := logger.New(cfg.Log,
			logger.WithOutput(o.logOutput),
			logger.WithExtractors(middlewares.RequestIDExtractor()),
		)
		if err != nil {
			return nil, err
		}
		a.Logger = l
		a.hooks = append(a.hooks, logger.Flush(flushTimeout))
	}

	content, err := mailer.LoadContent(cfg.Mail.ContentFile)
	if err != nil {
		return nil, err
	}

	sender, gateOpts, err := buildSender(cfg, o.sender)
	if err != nil {
		return nil, err
	}

	m, err := mailer.New(sender, nil, cfg.Mail)
	if err != nil {
		return nil, err
	}

	a.Store = o.store
	if a.Store == nil {
		a.Store, err = kv.Open(ctx, cfg.Store, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("open state store: %w", err)
		}
	}
	// Store closes first so the logger can still report its errors.
	a.hooks = append([]func(context.Context) error{func(context.Context) error { return a.Store.Close() }}, a.hooks...)

	gateOpts = append(gateOpts,
		warmup.WithLogger(a.Logger),
		warmup.WithContent(content),
	)
	a.Gate = warmup.New(cfg.Warmup, a.Store, m, append(gateOpts, o.gateOpts...)...)

	a.Logger.DebugContext(ctx, "application wired",
		slog.String("transport", cfg.Transport()),
		slog.String("store", cfg.Store.ResolveDriver()),
	)
	return a, nil
}

// buildSender picks the mail transport. Its settings are checked before
// each trigger rather than here.
func buildSender(cfg config.Config, override mailer.Sender) (mailer.Sender, []warmup.Option, error) {
	switch cfg.Transport() {
	case mailer.TransportResend:
		opts := []warmup.Option{
			warmup.WithPasswordsRequired(false),
			warmup.WithPreflight(func() error {
				if cfg.Resend.APIKey == "" {
					return resend.ErrMissingAPIKey
				}
				return nil
			}),
		}
		if override != nil {
			return override, opts, nil
		}
		if cfg.Resend.APIKey == "" {
			return mailer.SenderFunc(func(context.Context, *mailer.Email) error {
				return resend.ErrMissingAPIKey
			}), opts, nil
		}
		s, err := resend.New(cfg.Resend)
		if err != nil {
			return nil, nil, err
		}
		return s, opts, nil

	default:
		opts := []warmup.Option{
			warmup.WithPreflight(func() error {
				if cfg.SMTP.Host == "" || cfg.SMTP.Port <= 0 {
					return smtp.ErrNotConfigured
				}
				return nil
			}),
		}
		if override != nil {
			return override, opts, nil
		}
		a, b := cfg.Warmup.Mailboxes()
		return smtp.New(cfg.SMTP,
			smtp.Mailbox{Address: a.Address, Password: a.Password},
			smtp.Mailbox{Address: b.Address, Password: b.Password},
		), opts, nil
	}
}

// Server builds the HTTP server with readiness checks. On shutdown it runs
// the given hooks, then closes the store and flushes the logger.
func (a *App) Server(hooks ...func(context.Context) error) *server.Server {
	opts := []server.Option{
		server.WithLogger(a.Logger),
		server.WithHealthCheck("store", kv.Healthcheck(a.Store)),
		server.WithHealthCheck("config", func(context.Context) error { return a.Gate.Validate() }),
	}
	for _, hook := range append(hooks, a.hooks...) {
		opts = append(opts, server.WithShutdownHook(hook))
	}
	return server.New(a.Config.Server, a.Gate, opts...)
}

// Scheduler builds the timer trigger around the gate.
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(a.Config.Scheduler, a.Gate, scheduler.WithLogger(a.Logger))
}

// Close releases the store and flushes the logger. It is for commands
// that do not run the HTTP server, which calls the same hooks itself.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for _, hook := range a.hooks {
		errs = append(errs, hook(ctx))
	}
	return errors.Join(errs...)
}
