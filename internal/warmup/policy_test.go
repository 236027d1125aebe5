package warmup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailwarm/internal/warmup"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := warmup.Policy{DailyLimit: 10, MinInterval: 30 * time.Minute}

	testCases := []struct {
		name       string
		state      warmup.State
		wantSend   bool
		wantReason warmup.Reason
		wantNext   time.Time
	}{
		{
			name:     "fresh state sends",
			state:    warmup.State{},
			wantSend: true,
			wantNext: now,
		},
		{
			name:       "interval not reached",
			state:      warmup.State{LastSent: now.Add(-29 * time.Minute), SentToday: 1},
			wantReason: warmup.ReasonMinInterval,
			wantNext:   now.Add(time.Minute),
		},
		{
			name:     "interval exactly reached",
			state:    warmup.State{LastSent: now.Add(-30 * time.Minute), SentToday: 1},
			wantSend: true,
			wantNext: now,
		},
		{
			name:       "daily limit reached",
			state:      warmup.State{LastSent: now.Add(-2 * time.Hour), SentToday: 10},
			wantReason: warmup.ReasonDailyLimit,
			wantNext:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "over the limit",
			state:      warmup.State{SentToday: 11},
			wantReason: warmup.ReasonDailyLimit,
			wantNext:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "interval checked before limit",
			state:      warmup.State{LastSent: now.Add(-time.Minute), SentToday: 10},
			wantReason: warmup.ReasonMinInterval,
			wantNext:   now.Add(29 * time.Minute),
		},
		{
			name:       "last send in the future",
			state:      warmup.State{LastSent: now.Add(time.Hour)},
			wantReason: warmup.ReasonMinInterval,
			wantNext:   now.Add(90 * time.Minute),
		},
		{
			name:     "one below the limit",
			state:    warmup.State{SentToday: 9},
			wantSend: true,
			wantNext: now,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := warmup.Decide(policy, tc.state, now)
			require.Equal(t, tc.wantSend, d.Send)
			require.Equal(t, tc.wantReason, d.Reason)
			require.True(t, tc.wantNext.Equal(d.NextAllowedAt), "next allowed at %s, want %s", d.NextAllowedAt, tc.wantNext)
		})
	}
}

func TestDecide_ZeroPolicy(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	d := warmup.Decide(warmup.Policy{DailyLimit: 0}, warmup.State{}, now)
	require.False(t, d.Send)
	require.Equal(t, warmup.ReasonDailyLimit, d.Reason)

	d = warmup.Decide(warmup.Policy{DailyLimit: 5}, warmup.State{LastSent: now}, now)
	require.True(t, d.Send, "zero interval allows back-to-back sends")
}

func TestDecide_LimitAlwaysSkips(t *testing.T) {
	t.Parallel()

	policy := warmup.Policy{DailyLimit: 3, MinInterval: time.Minute}
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for h := range 24 {
		now := start.Add(time.Duration(h)*time.Hour + 17*time.Minute)
		d := warmup.Decide(policy, warmup.State{SentToday: 3, LastSent: start}, now)
		require.False(t, d.Send)
		require.Equal(t, warmup.ReasonDailyLimit, d.Reason)
	}
}

func TestState_Advance(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 987654321, time.FixedZone("CET", 3600))
	next := warmup.State{SentToday: 4, LastSent: now.Add(-time.Hour)}.Advance(now)

	require.Equal(t, 5, next.SentToday)
	require.Equal(t, now.Unix(), next.LastSent.Unix())
	require.Equal(t, time.UTC, next.LastSent.Location())
	require.True(t, next.HasLastSent())
	require.False(t, warmup.State{}.HasLastSent())
}

func TestUntilNextUTCMidnight(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{name: "noon", now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), want: 12 * time.Hour},
		{name: "start of day", now: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), want: 24 * time.Hour},
		{name: "fractional seconds truncate", now: time.Date(2025, 3, 1, 23, 59, 58, 500_000_000, time.UTC), want: time.Second},
		{name: "last instant floors to one second", now: time.Date(2025, 3, 1, 23, 59, 59, 999_000_000, time.UTC), want: time.Second},
		{name: "non-UTC input", now: time.Date(2025, 3, 1, 22, 0, 0, 0, time.FixedZone("EST", -5*3600)), want: 21 * time.Hour},
		{name: "month boundary", now: time.Date(2025, 2, 28, 18, 30, 0, 0, time.UTC), want: 5*time.Hour + 30*time.Minute},
		{name: "leap day", now: time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC), want: time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, warmup.UntilNextUTCMidnight(tc.now))
		})
	}
}

func TestNextUTCMidnight(t *testing.T) {
	t.Parallel()

	got := warmup.NextUTCMidnight(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got)
}
