package server

import "time"

// Config holds HTTP listener settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	// RequestTimeout bounds each request, including a warmup send.
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"60s"`
	// TriggerRatePerMinute caps manual /api/warmup calls. Zero disables the cap.
	TriggerRatePerMinute int `env:"TRIGGER_RATE_PER_MINUTE" envDefault:"30"`
}

const (
	defaultAddr              = ":8080"
	defaultShutdownTimeout   = 15 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
)
