// Package config loads the service configuration from the environment.
//
// Each package owns its env-tagged settings struct; Config nests them and
// caarlos0/env fills them in one pass. A .env file in the working directory
// is read first when present:
//
//	cfg, err := config.Load(".env")
//	if err != nil {
//		return err
//	}
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
package config
