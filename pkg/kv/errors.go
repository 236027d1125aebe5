package kv

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a key does not exist or has expired.
	ErrNotFound = errors.New("kv: key not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("kv: store closed")

	// ErrNotConfigured is returned when a backend is missing required settings.
	ErrNotConfigured = errors.New("kv: store not configured")

	// ErrEmptyKey is returned when an operation receives an empty key.
	ErrEmptyKey = errors.New("kv: empty key")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("kv: unknown driver")

	// ErrRequestFailed is returned when a remote backend rejects a request.
	ErrRequestFailed = errors.New("kv: request failed")

	// ErrCorruptState is returned when persisted data cannot be decoded.
	ErrCorruptState = errors.New("kv: corrupt state")
)
