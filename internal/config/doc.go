// Package config loads, normalizes, and validates Conductor configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REDIS_ADDR. The Config type centralizes every knob the daemon, worker
// loop, and CLI need, so inbox/archive/quarantine directories and external
// service endpoints are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
