package warmup

import "errors"

var (
	ErrNotConfigured   = errors.New("warmup: not configured")
	ErrMissingMailbox  = errors.New("warmup: MAIL1 and MAIL2 are required")
	ErrMissingPassword = errors.New("warmup: PASS1 and PASS2 are required")
	ErrInvalidPolicy   = errors.New("warmup: DAILY_LIMIT and MIN_INTERVAL_SECONDS must not be negative")
	ErrInvalidCounter  = errors.New("warmup: invalid counter value")
	ErrSaveState       = errors.New("warmup: failed to save counters")
)
