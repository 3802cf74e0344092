// Package logging assembles structured slog loggers used across edgectl.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so request pipeline log lines carry the
// per-request correlation ID. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Console output goes to stderr so command output on stdout stays parseable.
// Attributes named like credentials (token, password, authorization, nonce)
// are redacted by both handlers.
package logging
