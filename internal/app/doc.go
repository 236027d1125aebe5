// Package app wires configuration into the components every command uses:
// the logger, the state store, the mail transport and the warmup gate.
package app
