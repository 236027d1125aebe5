package warmup

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dmitrymomot/mailwarm/pkg/kv"
	"github.com/dmitrymomot/mailwarm/pkg/mailer"
)

// Direction is the sender and receiver of one message.
type Direction struct {
	From Mailbox
	To   Mailbox
}

// Gate decides on each trigger whether to send a warmup message and
// records the send in the store.
type Gate struct {
	counters  *Counters
	messenger Messenger
	opts      *options
	cfg       Config
	rngMu     sync.Mutex
}

// New creates a gate.
//
// Example:
//
//	gate := warmup.New(cfg.Warmup, store, m,
//	    warmup.WithLogger(logger),
//	    warmup.WithContent(content),
//	)
//	res, err := gate.Run(ctx)
func New(cfg Config, store kv.Store, messenger Messenger, opts ...Option) *Gate {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Gate{
		cfg:       cfg,
		counters:  NewCounters(store, cfg.KeyPrefix),
		messenger: messenger,
		opts:      o,
	}
}

// Counters returns the gate's counter accessor.
func (g *Gate) Counters() *Counters {
	return g.counters
}

// Validate checks the configuration a trigger needs.
func (g *Gate) Validate() error {
	errs := []error{g.cfg.Validate(g.opts.requirePasswords)}
	if err := g.opts.content.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, check := range g.opts.preflight {
		errs = append(errs, check())
	}
	return errors.Join(errs...)
}

// Run evaluates one trigger. It returns a Result for every outcome; the
// error is non-nil exactly when the result status is StatusError.
//
// Store read failures are logged and treated as no prior state. A failed
// send leaves the counters untouched.
func (g *Gate) Run(ctx context.Context) (Result, error) {
	now := g.opts.now().UTC()
	log := g.opts.logger

	if err := g.Validate(); err != nil {
		log.ErrorContext(ctx, "warmup configuration invalid", slog.String("error", err.Error()))
		return Failed(err), err
	}

	policy := g.cfg.Policy()

	var state State
	last, err := g.counters.LastSent(ctx)
	if err != nil {
		log.WarnContext(ctx, "read last send time failed, treating as unset",
			slog.String("key", g.counters.LastSentKey()),
			slog.String("error", err.Error()),
		)
	}
	state.LastSent = last

	if d := Decide(policy, state, now); d.Reason == ReasonMinInterval {
		log.InfoContext(ctx, "warmup skipped",
			slog.String("reason", string(d.Reason)),
			slog.Time("last_sent", state.LastSent),
			slog.Time("next_allowed_at", d.NextAllowedAt),
		)
		return SkippedMinInterval(state.LastSent.Unix()), nil
	}

	sentToday, err := g.counters.SentToday(ctx, now)
	if err != nil {
		log.WarnContext(ctx, "read daily count failed, treating as zero",
			slog.String("key", g.counters.CountKey(now)),
			slog.String("error", err.Error()),
		)
	}
	state.SentToday = sentToday

	if d := Decide(policy, state, now); !d.Send {
		log.InfoContext(ctx, "warmup skipped",
			slog.String("reason", string(d.Reason)),
			slog.Int("sent_today", state.SentToday),
			slog.Int("daily_limit", policy.DailyLimit),
		)
		return SkippedDailyLimit(state.SentToday), nil
	}

	dir, subject, body := g.pick()

	err = g.messenger.Send(ctx, mailer.SendParams{
		From:    dir.From.Address,
		To:      dir.To.Address,
		Subject: subject,
		Body:    body,
		Data: map[string]string{
			"Sender":   dir.From.Address,
			"Receiver": dir.To.Address,
		},
	})
	if err != nil {
		log.ErrorContext(ctx, "warmup send failed",
			slog.String("sender", dir.From.Address),
			slog.String("receiver", dir.To.Address),
			slog.String("error", err.Error()),
		)
		return Failed(err), err
	}

	next := state.Advance(now)
	if err := g.counters.Save(ctx, next, now); err != nil {
		log.ErrorContext(ctx, "message sent but counters not saved",
			slog.String("sender", dir.From.Address),
			slog.String("receiver", dir.To.Address),
			slog.String("error", err.Error()),
		)
		return Failed(err), err
	}

	log.InfoContext(ctx, "warmup email sent",
		slog.String("subject", subject),
		slog.String("sender", dir.From.Address),
		slog.String("receiver", dir.To.Address),
		slog.Int("sent_today", next.SentToday),
	)
	return Sent(subject, dir.From.Address, dir.To.Address, next.SentToday), nil
}

// Reset clears today's counters.
func (g *Gate) Reset(ctx context.Context) error {
	now := g.opts.now().UTC()
	if err := g.counters.Reset(ctx, now); err != nil {
		return err
	}
	g.opts.logger.InfoContext(ctx, "warmup counters reset", slog.String("date", now.Format(time.DateOnly)))
	return nil
}

// pick chooses the direction, subject and body of the next message.
func (g *Gate) pick() (dir Direction, subject, body string) {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()

	intn := rand.IntN
	if g.opts.rng != nil {
		intn = g.opts.rng.IntN
	}

	a, b := g.cfg.Mailboxes()
	dir = Direction{From: a, To: b}
	if intn(2) == 1 {
		dir = Direction{From: b, To: a}
	}
	subject, body = g.opts.content.Pick(g.opts.rng)
	return dir, subject, body
}
