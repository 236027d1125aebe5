package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultFileName is the state file name used when no path is configured.
const DefaultFileName = ".warmup_state.json"

// DefaultFilePath returns the default state file location in the OS temp dir.
func DefaultFilePath() string {
	return filepath.Join(os.TempDir(), DefaultFileName)
}

// fileEntry is the on-disk representation of a single key.
type fileEntry struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at,omitempty"` // unix seconds, 0 = never
}

// File is a store persisted as a single JSON document on the local filesystem.
// Intended for local development; every operation reads and rewrites the file.
type File struct {
	now  func() time.Time
	path string
	mu   sync.Mutex
}

// FileOption configures the file store.
type FileOption func(*File)

// WithFileClock overrides the time source used for expiry checks.
func WithFileClock(now func() time.Time) FileOption {
	return func(f *File) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFile creates a file-backed store at path.
// An empty path falls back to DefaultFilePath.
func NewFile(path string, opts ...FileOption) *File {
	if path == "" {
		path = DefaultFilePath()
	}
	f := &File{path: path, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the location of the state file.
func (f *File) Path() string {
	return f.path
}

// Get retrieves a value by key.
func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return "", err
	}

	e, ok := state[key]
	if !ok || f.expired(e) {
		return "", ErrNotFound
	}
	return e.Value, nil
}

// Set stores a value with the given TTL.
// Expired entries are pruned on every write.
func (f *File) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		// A corrupt document is replaced rather than blocking all writes.
		if !errors.Is(err, ErrCorruptState) {
			return err
		}
		state = make(map[string]fileEntry)
	}

	e := fileEntry{Value: value}
	if exp := expiresAt(f.now(), ttl); !exp.IsZero() {
		e.ExpiresAt = exp.Unix()
	}
	state[key] = e

	return f.save(state)
}

// Delete removes a key from the file.
func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := state[key]; !ok {
		return nil
	}
	delete(state, key)
	return f.save(state)
}

// Ping verifies the state directory is reachable.
func (f *File) Ping(_ context.Context) error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("kv: state dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("kv: state dir %s is not a directory", dir)
	}
	return nil
}

// Close is a no-op; the file is not held open between operations.
func (f *File) Close() error {
	return nil
}

func (f *File) expired(e fileEntry) bool {
	return e.ExpiresAt > 0 && f.now().Unix() >= e.ExpiresAt
}

// load reads the state document. A missing file is an empty state.
// Plain scalar values (no expiry wrapper) are accepted as non-expiring entries.
func (f *File) load() (map[string]fileEntry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]fileEntry), nil
		}
		return nil, fmt.Errorf("kv: read state file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]fileEntry), nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrCorruptState, err)
	}

	state := make(map[string]fileEntry, len(raw))
	now := f.now().Unix()
	for key, msg := range raw {
		e, err := decodeFileEntry(msg)
		if err != nil {
			return nil, errors.Join(ErrCorruptState, fmt.Errorf("key %q: %w", key, err))
		}
		if e.ExpiresAt > 0 && now >= e.ExpiresAt {
			continue
		}
		state[key] = e
	}
	return state, nil
}

func decodeFileEntry(msg json.RawMessage) (fileEntry, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var e fileEntry
		err := json.Unmarshal(trimmed, &e)
		return e, err
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fileEntry{}, err
	}
	switch val := v.(type) {
	case string:
		return fileEntry{Value: val}, nil
	case nil:
		return fileEntry{}, errors.New("null value")
	default:
		return fileEntry{Value: strings.TrimSpace(string(trimmed))}, nil
	}
}

// save writes the document atomically via a temp file in the same directory.
func (f *File) save(state map[string]fileEntry) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("kv: encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("kv: create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: close state file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: replace state file: %w", err)
	}
	return nil
}

var _ Store = (*File)(nil)
