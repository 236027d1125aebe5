package warmup

import "time"

// Reason explains why a trigger did not send.
type Reason string

const (
	ReasonMinInterval Reason = "min_interval_not_reached"
	ReasonDailyLimit  Reason = "daily_limit_reached"
)

// Policy bounds how often warmup messages go out.
type Policy struct {
	DailyLimit  int
	MinInterval time.Duration
}

// State is the persisted counter snapshot a decision is made from.
// A zero LastSent means nothing was sent since the keys last expired.
type State struct {
	LastSent  time.Time
	SentToday int
}

// HasLastSent reports whether a previous send is recorded.
func (s State) HasLastSent() bool {
	return !s.LastSent.IsZero()
}

// Advance returns the state after one successful send at now.
func (s State) Advance(now time.Time) State {
	return State{
		LastSent:  now.UTC().Truncate(time.Second),
		SentToday: s.SentToday + 1,
	}
}

// Decision is the outcome of Decide.
type Decision struct {
	// NextAllowedAt is the earliest time a send can happen under the
	// evaluated state. It equals now when Send is true.
	NextAllowedAt time.Time
	Reason        Reason
	Send          bool
}

// Decide applies p to s at now. The interval check runs before the daily
// cap. A LastSent in the future counts as too recent.
func Decide(p Policy, s State, now time.Time) Decision {
	now = now.UTC()

	if s.HasLastSent() {
		if elapsed := now.Sub(s.LastSent); elapsed < p.MinInterval {
			return Decision{
				Reason:        ReasonMinInterval,
				NextAllowedAt: s.LastSent.UTC().Add(p.MinInterval),
			}
		}
	}

	if s.SentToday >= p.DailyLimit {
		return Decision{
			Reason:        ReasonDailyLimit,
			NextAllowedAt: NextUTCMidnight(now),
		}
	}

	return Decision{Send: true, NextAllowedAt: now}
}

// NextUTCMidnight returns the start of the UTC day after t.
func NextUTCMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

// UntilNextUTCMidnight returns the whole seconds left in t's UTC day,
// never less than one second.
func UntilNextUTCMidnight(t time.Time) time.Duration {
	secs := int64(NextUTCMidnight(t).Sub(t.UTC()) / time.Second)
	return time.Duration(max(secs, 1)) * time.Second
}
