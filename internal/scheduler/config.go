package scheduler

import "time"

// Config holds timer trigger settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Schedule accepts 5 or 6 field cron expressions and descriptors
	// such as @every 1m or @hourly.
	Schedule  string        `env:"WARMUP_SCHEDULE" envDefault:"@every 1m"`
	JitterMin time.Duration `env:"WARMUP_JITTER_MIN" envDefault:"5m"`
	JitterMax time.Duration `env:"WARMUP_JITTER_MAX" envDefault:"20m"`
	// RunTimeout bounds a single evaluation including the send.
	RunTimeout time.Duration `env:"WARMUP_RUN_TIMEOUT" envDefault:"2m"`
}
