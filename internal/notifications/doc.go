// Package notifications delivers operator-facing notices.
//
// Core packages depend only on the Service interface and call
// Publish(message, severity); they never write to the terminal directly. The
// console implementation prints to stderr, optionally mirrored to an ntfy
// topic configured in config.toml. A Recorder captures notices in tests.
package notifications
