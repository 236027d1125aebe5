package warmup

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dmitrymomot/mailwarm/pkg/mailer"
)

// Option configures a Gate.
type Option func(*options)

type options struct {
	now              func() time.Time
	rng              *rand.Rand
	logger           *slog.Logger
	preflight        []func() error
	content          mailer.Content
	requirePasswords bool
}

func defaultOptions() *options {
	return &options{
		now:              time.Now,
		logger:           slog.New(slog.DiscardHandler),
		content:          mailer.DefaultContent(),
		requirePasswords: true,
	}
}

// WithClock sets the time source. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRand sets the random source used to pick direction and content.
// Default: the global math/rand/v2 source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithContent replaces the subject and body catalogue.
func WithContent(c mailer.Content) Option {
	return func(o *options) {
		o.content = c
	}
}

// WithPasswordsRequired controls whether PASS1 and PASS2 must be set.
// Default: true.
func WithPasswordsRequired(required bool) Option {
	return func(o *options) {
		o.requirePasswords = required
	}
}

// WithPreflight adds a configuration check run before each trigger,
// typically the transport's own settings.
func WithPreflight(check func() error) Option {
	return func(o *options) {
		if check != nil {
			o.preflight = append(o.preflight, check)
		}
	}
}

// Messenger sends one rendered warmup message. *mailer.Mailer implements it.
type Messenger interface {
	Send(ctx context.Context, params mailer.SendParams) error
}
