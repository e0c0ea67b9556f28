// Package config loads, normalizes, and validates the TOML configuration
// file. Missing files fall back to defaults so the CLI works out of the box;
// environment variables supply credentials when the file omits them.
package config
