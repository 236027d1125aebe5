package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("request_id", v), true
	}
	return slog.Attr{}, false
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range testCases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	require.ErrorIs(t, err, ErrInvalidLevel)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json with extractor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := New(Config{Level: "info", Format: "json"}, WithOutput(&buf), WithExtractors(requestID, nil))
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.With(slog.String("component", "gate")).InfoContext(ctx, "sent", slog.Int("sent_today", 2))
		log.DebugContext(ctx, "hidden")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
		require.Equal(t, "sent", rec["msg"])
		require.Equal(t, "req-1", rec["request_id"])
		require.Equal(t, "gate", rec["component"])
		require.InDelta(t, 2, rec["sent_today"], 0)
	})

	t.Run("text at debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := New(Config{Level: "debug", Format: "text"}, WithOutput(&buf))
		require.NoError(t, err)

		log.Debug("tick", slog.String("schedule", "@every 1m"))
		require.Contains(t, buf.String(), "level=DEBUG")
		require.Contains(t, buf.String(), `schedule="@every 1m"`)
	})

	t.Run("invalid settings", func(t *testing.T) {
		t.Parallel()

		_, err := New(Config{Level: "loud"})
		require.ErrorIs(t, err, ErrInvalidLevel)

		_, err = New(Config{Format: "xml"})
		require.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("groups keep extractors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log, err := New(Config{}, WithOutput(&buf), WithExtractors(requestID))
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-2")
		log.WithGroup("http").InfoContext(ctx, "done", slog.Int("status", 200))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		group, ok := rec["http"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "req-2", group["request_id"])
	})
}

type recordingHandler struct {
	level   slog.Level
	records []slog.Record
	err     error
}

func (h *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return h.err
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestFanout(t *testing.T) {
	t.Parallel()

	info := &recordingHandler{level: slog.LevelInfo}
	warn := &recordingHandler{level: slog.LevelWarn}
	log := slog.New(fanout{info, warn})

	log.Debug("dropped")
	log.Info("one")
	log.Warn("two")

	require.Len(t, info.records, 2)
	require.Len(t, warn.records, 1)
	require.Equal(t, "two", warn.records[0].Message)

	boom := errors.New("boom")
	failing := fanout{&recordingHandler{err: boom}}
	require.ErrorIs(t, failing.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)), boom)
}

func TestFlush_WithoutSentry(t *testing.T) {
	t.Parallel()

	require.NoError(t, Flush(time.Second)(context.Background()))
}
