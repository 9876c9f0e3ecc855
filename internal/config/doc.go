// Package config loads, normalizes, and validates medscribe configuration.
//
// Configuration is TOML with a section per subsystem. Load resolves the
// config path (explicit flag, ~/.config/medscribe/config.toml, or
// ./medscribe.toml), applies defaults for missing values, expands ~ in all
// path fields, and validates the result. CreateSample writes an annotated
// starter file.
package config
