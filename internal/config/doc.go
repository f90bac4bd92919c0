// Package config loads, normalizes, and validates pix configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// PIX_PICTURES_DIR. Every command receives one explicit *Config
// instead of consulting globals.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a canonical picker order, and clear validation errors.
package config
