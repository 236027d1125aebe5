package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/mailwarm/internal/scheduler"
	"github.com/dmitrymomot/mailwarm/internal/server"
	"github.com/dmitrymomot/mailwarm/internal/warmup"
	"github.com/dmitrymomot/mailwarm/pkg/kv"
	"github.com/dmitrymomot/mailwarm/pkg/logger"
	"github.com/dmitrymomot/mailwarm/pkg/mailer"
	"github.com/dmitrymomot/mailwarm/pkg/mailer/resend"
	"github.com/dmitrymomot/mailwarm/pkg/mailer/smtp"
)

var (
	ErrParse   = errors.New("config: parse environment")
	ErrDotenv  = errors.New("config: load dotenv file")
	ErrInvalid = errors.New("config: invalid settings")
)

// Config is the complete service configuration.
type Config struct {
	Warmup    warmup.Config
	Store     kv.Config
	Mail      mailer.Config
	SMTP      smtp.Config
	Resend    resend.Config
	Log       logger.Config
	Server    server.Config
	Scheduler scheduler.Config
}

// Load reads the given dotenv files, then parses the process environment.
// Missing files are skipped. Variables already set in the environment win
// over dotenv values.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w %s: %w", ErrDotenv, f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	return cfg, nil
}

// Validate checks settings that are wrong regardless of the command.
// Mailbox credentials are checked by the gate on every trigger instead,
// so the HTTP server can start and report them through /health/ready.
func (c Config) Validate() error {
	var errs []error

	switch c.Transport() {
	case mailer.TransportSMTP, mailer.TransportResend:
	default:
		errs = append(errs, fmt.Errorf("MAIL_TRANSPORT %q is not smtp or resend", c.Mail.Transport))
	}

	switch c.Store.ResolveDriver() {
	case kv.DriverREST, kv.DriverFile, kv.DriverRedis, kv.DriverPostgres, kv.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STATE_STORE %q is unknown", c.Store.Driver))
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("HTTP_ADDR is empty"))
	}
	if c.Server.TriggerRatePerMinute < 0 {
		errs = append(errs, errors.New("TRIGGER_RATE_PER_MINUTE must not be negative"))
	}
	if c.Scheduler.JitterMin < 0 || c.Scheduler.JitterMax < c.Scheduler.JitterMin {
		errs = append(errs, fmt.Errorf("jitter range [%s, %s] is invalid", c.Scheduler.JitterMin, c.Scheduler.JitterMax))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Transport returns the normalized transport name.
func (c Config) Transport() string {
	return strings.ToLower(strings.TrimSpace(c.Mail.Transport))
}
