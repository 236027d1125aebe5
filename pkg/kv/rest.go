package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultRESTTimeout = 10 * time.Second

// RESTConfig holds settings for a Redis-over-HTTP service
// (Vercel KV, Upstash Redis REST API).
type RESTConfig struct {
	URL   string `env:"KV_REST_API_URL"`
	Token string `env:"KV_REST_API_TOKEN"`
}

// Enabled reports whether both URL and token are set.
func (c RESTConfig) Enabled() bool {
	return c.URL != "" && c.Token != ""
}

// RESTOption configures the REST store.
type RESTOption func(*REST)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) RESTOption {
	return func(r *REST) {
		if c != nil {
			r.client = c
		}
	}
}

// REST is a store backed by a Redis REST endpoint.
// Commands are encoded in the URL path: /get/<key>, /set/<key>/<value>?ex=<seconds>.
type REST struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewREST creates a REST-backed store.
//
// Example:
//
//	s, err := kv.NewREST(kv.RESTConfig{
//	    URL:   os.Getenv("KV_REST_API_URL"),
//	    Token: os.Getenv("KV_REST_API_TOKEN"),
//	})
func NewREST(cfg RESTConfig, opts ...RESTOption) (*REST, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: KV_REST_API_URL and KV_REST_API_TOKEN are required", ErrNotConfigured)
	}

	r := &REST{
		client:  &http.Client{Timeout: defaultRESTTimeout},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// restResponse is the envelope returned by the service.
type restResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// Get retrieves a value by key.
func (r *REST) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	resp, err := r.do(ctx, http.MethodGet, "/get/"+url.PathEscape(key), nil)
	if err != nil {
		return "", err
	}

	result := strings.TrimSpace(string(resp.Result))
	if result == "" || result == "null" {
		return "", ErrNotFound
	}

	var s string
	if err := json.Unmarshal(resp.Result, &s); err == nil {
		return s, nil
	}
	// Numbers come back unquoted from some deployments.
	return result, nil
}

// Set stores a value with the given TTL in whole seconds.
// Sub-second positive TTLs are rounded up to one second.
func (r *REST) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	q := url.Values{}
	if ttl > 0 {
		secs := int64(ttl / time.Second)
		if secs < 1 {
			secs = 1
		}
		q.Set("ex", strconv.FormatInt(secs, 10))
	}

	_, err := r.do(ctx, http.MethodPost, "/set/"+url.PathEscape(key)+"/"+url.PathEscape(value), q)
	return err
}

// Delete removes a key.
func (r *REST) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := r.do(ctx, http.MethodPost, "/del/"+url.PathEscape(key), nil)
	return err
}

// Ping checks the endpoint is reachable and the token is accepted.
func (r *REST) Ping(ctx context.Context) error {
	_, err := r.do(ctx, http.MethodGet, "/ping", nil)
	return err
}

// Close releases idle HTTP connections.
func (r *REST) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *REST) do(ctx context.Context, method, path string, query url.Values) (*restResponse, error) {
	target := r.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	var out restResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil && res.StatusCode < 300 {
			return nil, errors.Join(ErrRequestFailed, fmt.Errorf("decode response: %w", err))
		}
	}

	if res.StatusCode >= 300 {
		msg := out.Error
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrRequestFailed, method, path, res.StatusCode, msg)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, out.Error)
	}

	return &out, nil
}

var _ Store = (*REST)(nil)
