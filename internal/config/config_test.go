package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailwarm/pkg/kv"
)

// Tests here use t.Setenv and cannot run in parallel.

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAIL1", "alice@example.com")
	t.Setenv("MAIL2", "bob@example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "alice@example.com", cfg.Warmup.Mail1)
	require.Equal(t, 10, cfg.Warmup.DailyLimit)
	require.Equal(t, 1800, cfg.Warmup.MinIntervalSeconds)
	require.Equal(t, "warmup", cfg.Warmup.KeyPrefix)
	require.Equal(t, "smtp", cfg.Transport())
	require.Equal(t, 587, cfg.SMTP.Port)
	require.True(t, cfg.SMTP.StartTLS)
	require.Equal(t, 30*time.Second, cfg.SMTP.Timeout)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "@every 1m", cfg.Scheduler.Schedule)
	require.Equal(t, 5*time.Minute, cfg.Scheduler.JitterMin)
	require.Equal(t, 20*time.Minute, cfg.Scheduler.JitterMax)
	require.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DotenvAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"MAIL_CONFIG_TEST_DAILY=7\nKV_REST_API_URL=https://kv.example.com\nKV_REST_API_TOKEN=tok\n"), 0o600))
	t.Setenv("DAILY_LIMIT", "3")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Cleanup(func() {
		_ = os.Unsetenv("MAIL_CONFIG_TEST_DAILY")
		_ = os.Unsetenv("KV_REST_API_URL")
		_ = os.Unsetenv("KV_REST_API_TOKEN")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "7", os.Getenv("MAIL_CONFIG_TEST_DAILY"))
	require.Equal(t, 3, cfg.Warmup.DailyLimit)
	require.Equal(t, "tok", cfg.Store.REST.Token)
	require.Equal(t, "redis://localhost:6379/0", cfg.Store.Redis.URL)
	require.Equal(t, kv.DriverREST, cfg.Store.ResolveDriver())
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("DAILY_LIMIT", "ten")

	_, err := Load()
	require.ErrorIs(t, err, ErrParse)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"transport", func(c *Config) { c.Mail.Transport = "pigeon" }},
		{"store", func(c *Config) { c.Store.Driver = "etcd" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"addr", func(c *Config) { c.Server.Addr = "" }},
		{"rate", func(c *Config) { c.Server.TriggerRatePerMinute = -1 }},
		{"jitter", func(c *Config) { c.Scheduler.JitterMin = time.Hour }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	cfg := valid()
	cfg.Mail.Transport = "Resend"
	require.NoError(t, cfg.Validate())
	require.Equal(t, "resend", cfg.Transport())

	cfg.Mail.Transport = " smtp "
	require.NoError(t, cfg.Validate())
	require.Equal(t, "smtp", cfg.Transport())
}
