// Package cli defines the mailwarm command tree:
//
//	mailwarm serve [--schedule]   HTTP trigger endpoint, optionally with the timer
//	mailwarm run                  one evaluation, JSON result on stdout
//	mailwarm schedule             timer trigger only
//	mailwarm stats                today's counters
//	mailwarm reset --yes          clear today's counters
//	mailwarm version
//
// Every command loads configuration from the environment and an optional
// dotenv file (--env-file). Logs go to stderr.
package cli
