package warmup

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/mailwarm/pkg/kv"
)

// DefaultKeyPrefix namespaces the counter keys.
const DefaultKeyPrefix = "warmup"

// Counters reads and writes the gate state in a kv.Store.
//
// Keys:
//
//	<prefix>:count:<YYYY-MM-DD>  sends on that UTC date
//	<prefix>:last_sent           unix seconds of the latest send
//
// Both expire at the next UTC midnight after they are written.
type Counters struct {
	store  kv.Store
	prefix string
}

// NewCounters creates counters over store. An empty prefix uses DefaultKeyPrefix.
func NewCounters(store kv.Store, prefix string) *Counters {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Counters{store: store, prefix: prefix}
}

// LastSentKey returns the key holding the last send timestamp.
func (c *Counters) LastSentKey() string {
	return c.prefix + ":last_sent"
}

// CountKey returns the key holding the send count for t's UTC date.
func (c *Counters) CountKey(t time.Time) string {
	return c.prefix + ":count:" + t.UTC().Format(time.DateOnly)
}

// LastSent returns the recorded last send time, or the zero time when none
// is stored. Unparsable values return the zero time and ErrInvalidCounter.
func (c *Counters) LastSent(ctx context.Context) (time.Time, error) {
	raw, err := c.store.Get(ctx, c.LastSentKey())
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	secs, err := parseInt(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", ErrInvalidCounter, c.LastSentKey(), raw)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// SentToday returns the send count for now's UTC date.
// Missing keys count as zero.
func (c *Counters) SentToday(ctx context.Context, now time.Time) (int, error) {
	key := c.CountKey(now)
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	n, err := parseInt(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidCounter, key, raw)
	}
	return int(n), nil
}

// Save writes s as the state at now: the daily count first, then the last
// send timestamp. Both keys get the TTL until the next UTC midnight.
func (c *Counters) Save(ctx context.Context, s State, now time.Time) error {
	ttl := UntilNextUTCMidnight(now)

	if err := c.store.Set(ctx, c.CountKey(now), strconv.Itoa(s.SentToday), ttl); err != nil {
		return errors.Join(ErrSaveState, err)
	}
	if err := c.store.Set(ctx, c.LastSentKey(), strconv.FormatInt(s.LastSent.Unix(), 10), ttl); err != nil {
		return errors.Join(ErrSaveState, err)
	}
	return nil
}

// Reset deletes the counters for now's UTC date.
func (c *Counters) Reset(ctx context.Context, now time.Time) error {
	return errors.Join(
		c.store.Delete(ctx, c.CountKey(now)),
		c.store.Delete(ctx, c.LastSentKey()),
	)
}

// parseInt accepts integers and integral floats ("1700000000.0").
func parseInt(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return int64(f), nil
}
