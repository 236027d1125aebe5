package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/mailwarm/internal/warmup"
	"github.com/dmitrymomot/mailwarm/middlewares"
)

// Trigger evaluates the warmup gate once. *warmup.Gate implements it.
type Trigger interface {
	Run(ctx context.Context) (warmup.Result, error)
}

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	now    func() time.Time
	rng    *rand.Rand
	logger *slog.Logger
}

// WithClock sets the time source used for the post-send pause.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRand sets the source for jitter delays.
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

// Scheduler fires the trigger on a cron schedule. After a message is sent
// it stays quiet for a random delay in [JitterMin, JitterMax], so sends
// do not line up with the tick interval. Counters live in the store only.
type Scheduler struct {
	cron    *cron.Cron
	trigger Trigger
	opts    *options
	cfg     Config

	mu          sync.Mutex
	pausedUntil time.Time
	started     bool
	baseCtx     context.Context
}

// New validates cfg and prepares the cron runner. Overlapping ticks are
// skipped while a previous evaluation is still running.
func New(cfg Config, trigger Trigger, opts ...Option) (*Scheduler, error) {
	if trigger == nil {
		return nil, ErrNilTrigger
	}
	if cfg.JitterMin < 0 || cfg.JitterMax < cfg.JitterMin {
		return nil, fmt.Errorf("%w: [%s, %s]", ErrInvalidJitter, cfg.JitterMin, cfg.JitterMax)
	}

	o := &options{now: time.Now, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, cfg.Schedule, err)
	}

	cronLog := cronLogger{log: o.logger}
	s := &Scheduler{
		cfg:     cfg,
		trigger: trigger,
		opts:    o,
		baseCtx: context.Background(),
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, s.tick); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, cfg.Schedule, err)
	}
	return s, nil
}

// Start begins firing ticks. Evaluations run with a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.baseCtx = ctx
	s.cron.Start()

	s.opts.logger.InfoContext(ctx, "warmup scheduler started",
		slog.String("schedule", s.cfg.Schedule),
		slog.Duration("jitter_min", s.cfg.JitterMin),
		slog.Duration("jitter_max", s.cfg.JitterMax),
	)
	return nil
}

// Stop stops new ticks and waits for a running evaluation or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.opts.logger.InfoContext(ctx, "warmup scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), max(s.cfg.RunTimeout, time.Second))
	defer cancel()
	return s.Stop(stopCtx)
}

// Shutdown returns a shutdown hook for the scheduler.
func (s *Scheduler) Shutdown() func(context.Context) error {
	return s.Stop
}

// PausedUntil returns the end of the current post-send pause, if any.
func (s *Scheduler) PausedUntil() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pausedUntil
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()

	s.Tick(ctx)
}

// Tick performs one scheduled evaluation unless a post-send pause is active.
// It reports whether the trigger ran.
func (s *Scheduler) Tick(ctx context.Context) bool {
	now := s.opts.now()
	log := s.opts.logger

	s.mu.Lock()
	paused := now.Before(s.pausedUntil)
	until := s.pausedUntil
	s.mu.Unlock()
	if paused {
		log.DebugContext(ctx, "warmup tick skipped, pausing after send", slog.Time("until", until))
		return false
	}

	ctx = middlewares.WithRequestID(ctx, middlewares.NewRequestID())
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	res, err := s.trigger.Run(ctx)
	if err != nil {
		log.ErrorContext(ctx, "scheduled warmup failed", slog.String("error", err.Error()))
		return true
	}
	if res.Status != warmup.StatusSent {
		log.DebugContext(ctx, "scheduled warmup skipped", slog.String("reason", string(res.Reason)))
		return true
	}

	delay := s.jitter()
	s.mu.Lock()
	s.pausedUntil = now.Add(delay)
	s.mu.Unlock()

	log.InfoContext(ctx, "scheduled warmup sent, pausing",
		slog.String("subject", res.Subject),
		slog.Duration("pause", delay),
	)
	return true
}

func (s *Scheduler) jitter() time.Duration {
	span := s.cfg.JitterMax - s.cfg.JitterMin
	if span <= 0 {
		return s.cfg.JitterMin
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.rng != nil {
		return s.cfg.JitterMin + time.Duration(s.opts.rng.Int64N(int64(span)+1))
	}
	return s.cfg.JitterMin + time.Duration(rand.Int64N(int64(span)+1))
}

// cronLogger routes robfig/cron's logger to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}
