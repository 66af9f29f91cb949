// Package config loads, normalizes, and validates playonctl configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads the optional TOML file from
// ~/.config/playonctl/config.toml or ./playonctl.toml. Every command obtains
// its settings through this package so downstream code receives sanitized
// paths and clear validation errors.
package config
