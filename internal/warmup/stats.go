package warmup

import (
	"context"
	"errors"
	"time"
)

// Stats is a read-only view of the counters.
type Stats struct {
	LastSent      *int64 `json:"last_sent,omitempty"`
	Date          string `json:"date"`
	SentToday     int    `json:"sent_today"`
	DailyLimit    int    `json:"daily_limit"`
	Remaining     int    `json:"remaining"`
	MinInterval   int64  `json:"min_interval_seconds"`
	NextAllowedAt int64  `json:"next_allowed_at"`
	ResetsAt      int64  `json:"resets_at"`
}

// Stats reads the current counters without sending. Unlike Run, store and
// parse errors are returned.
func (g *Gate) Stats(ctx context.Context) (Stats, error) {
	now := g.opts.now().UTC().Truncate(time.Second)
	policy := g.cfg.Policy()

	last, lastErr := g.counters.LastSent(ctx)
	sent, sentErr := g.counters.SentToday(ctx, now)
	if err := errors.Join(lastErr, sentErr); err != nil {
		return Stats{}, err
	}

	state := State{LastSent: last, SentToday: sent}
	s := Stats{
		Date:          now.Format(time.DateOnly),
		SentToday:     sent,
		DailyLimit:    policy.DailyLimit,
		Remaining:     max(policy.DailyLimit-sent, 0),
		MinInterval:   int64(policy.MinInterval / time.Second),
		NextAllowedAt: Decide(policy, state, now).NextAllowedAt.Unix(),
		ResetsAt:      NextUTCMidnight(now).Unix(),
	}
	if state.HasLastSent() {
		ts := last.Unix()
		s.LastSent = &ts
	}
	return s, nil
}
