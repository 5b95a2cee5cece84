// Package config loads, normalizes, and validates ai-lab configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// AILAB_INSTALLER_URL. The Config type centralizes every knob the CLI needs:
// installer sources, model lists, retry tuning, deployment mode, and log
// routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical modes, and clear validation errors.
package config
