// Package logging wraps log/slog with the handlers and attribute helpers
// used across mediasort. The console handler renders a compact
// timestamp/level/component line for interactive runs; the JSON handler
// serves log files and machine consumers.
package logging
