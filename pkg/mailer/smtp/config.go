package smtp

import (
	"net"
	"strconv"
	"time"
)

// Config holds SMTP relay settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT" envDefault:"587"`
	// StartTLS upgrades a plain connection before authenticating.
	StartTLS bool `env:"SMTP_STARTTLS" envDefault:"true"`
	// ImplicitTLS dials TLS directly (port 465). It takes precedence over StartTLS.
	ImplicitTLS        bool          `env:"SMTP_IMPLICIT_TLS"`
	InsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY"`
	Timeout            time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Mailbox is an account the sender can authenticate as.
type Mailbox struct {
	Address  string
	Password string
}
