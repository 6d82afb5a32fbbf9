// Package config loads and validates mediasort's TOML configuration. File
// values provide defaults; command-line flags override them per run.
package config
