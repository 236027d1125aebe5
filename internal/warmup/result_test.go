package warmup_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailwarm/internal/warmup"
)

func TestResult_JSON(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		result warmup.Result
		want   string
	}{
		{
			name:   "sent",
			result: warmup.Sent("Quick check", "a@example.com", "b@example.com", 3),
			want:   `{"status":"sent","subject":"Quick check","sender":"a@example.com","receiver":"b@example.com","sent_today":3}`,
		},
		{
			name:   "skipped interval",
			result: warmup.SkippedMinInterval(1740830400),
			want:   `{"status":"skipped","reason":"min_interval_not_reached","last_sent":1740830400}`,
		},
		{
			name:   "skipped limit",
			result: warmup.SkippedDailyLimit(10),
			want:   `{"status":"skipped","reason":"daily_limit_reached","sent_today":10}`,
		},
		{
			name:   "skipped limit of zero keeps the count",
			result: warmup.SkippedDailyLimit(0),
			want:   `{"status":"skipped","reason":"daily_limit_reached","sent_today":0}`,
		},
		{
			name:   "error",
			result: warmup.Failed(errors.New("boom")),
			want:   `{"status":"error","message":"boom"}`,
		},
		{
			name:   "error without cause",
			result: warmup.Failed(nil),
			want:   `{"status":"error","message":"unknown error"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tc.result)
			require.NoError(t, err)
			require.JSONEq(t, tc.want, string(data))
		})
	}
}

func TestResult_IsError(t *testing.T) {
	t.Parallel()

	require.True(t, warmup.Failed(errors.New("x")).IsError())
	require.False(t, warmup.SkippedDailyLimit(1).IsError())
	require.False(t, warmup.Sent("s", "a", "b", 1).IsError())
}
