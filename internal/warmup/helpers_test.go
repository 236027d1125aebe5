package warmup_test

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/mailwarm/pkg/kv"
	"github.com/dmitrymomot/mailwarm/pkg/mailer"
)

// setCall records one Set on the store.
type setCall struct {
	key   string
	value string
	ttl   time.Duration
}

// recordingStore is a memory store that records writes and can fail on demand.
type recordingStore struct {
	*kv.Memory

	mu      sync.Mutex
	sets    []setCall
	getErr  error
	setErr  error
	failKey string
}

func newRecordingStore(now func() time.Time) *recordingStore {
	return &recordingStore{
		Memory: kv.NewMemory(kv.WithCleanupInterval(0), kv.WithMemoryClock(now)),
	}
}

func (s *recordingStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	return s.Memory.Get(ctx, key)
}

func (s *recordingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	s.sets = append(s.sets, setCall{key: key, value: value, ttl: ttl})
	err := s.setErr
	if s.failKey != "" && s.failKey != key {
		err = nil
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Memory.Set(ctx, key, value, ttl)
}

func (s *recordingStore) writes() []setCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]setCall(nil), s.sets...)
}

// captureSender records every email handed to the transport.
type captureSender struct {
	mu     sync.Mutex
	emails []*mailer.Email
	err    error
}

func (c *captureSender) Send(_ context.Context, e *mailer.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.emails = append(c.emails, e)
	return nil
}

func (c *captureSender) sent() []*mailer.Email {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*mailer.Email(nil), c.emails...)
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
