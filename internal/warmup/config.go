package warmup

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mailbox is one side of the warmup exchange.
type Mailbox struct {
	Address  string
	Password string
}

// Config holds the gate settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Mail1              string `env:"MAIL1"`
	Pass1              string `env:"PASS1"`
	Mail2              string `env:"MAIL2"`
	Pass2              string `env:"PASS2"`
	KeyPrefix          string `env:"WARMUP_KEY_PREFIX" envDefault:"warmup"`
	DailyLimit         int    `env:"DAILY_LIMIT" envDefault:"10"`
	MinIntervalSeconds int    `env:"MIN_INTERVAL_SECONDS" envDefault:"1800"`
}

// Policy returns the configured limits.
func (c Config) Policy() Policy {
	return Policy{
		DailyLimit:  c.DailyLimit,
		MinInterval: time.Duration(c.MinIntervalSeconds) * time.Second,
	}
}

// Mailboxes returns the two configured accounts.
func (c Config) Mailboxes() (Mailbox, Mailbox) {
	return Mailbox{Address: strings.TrimSpace(c.Mail1), Password: c.Pass1},
		Mailbox{Address: strings.TrimSpace(c.Mail2), Password: c.Pass2}
}

// Validate checks the settings a trigger needs. Passwords are only checked
// when requirePasswords is set; API transports authenticate differently.
func (c Config) Validate(requirePasswords bool) error {
	var errs []error

	a, b := c.Mailboxes()
	if a.Address == "" || b.Address == "" {
		errs = append(errs, ErrMissingMailbox)
	}
	if requirePasswords && (a.Password == "" || b.Password == "") {
		errs = append(errs, ErrMissingPassword)
	}
	if c.DailyLimit < 0 || c.MinIntervalSeconds < 0 {
		errs = append(errs, ErrInvalidPolicy)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotConfigured, errors.Join(errs...))
	}
	return nil
}
