// Package config loads, normalizes, and validates edgectl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// EDGECTL_GATEWAY_URL. The request deadline is clamped to the 30 second floor
// the gateway needs for protocol scans.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
