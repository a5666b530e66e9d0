// Package config loads, normalizes, and validates subpick configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBPICK_SUBTITLE_LANGUAGE. The Config type centralizes the playback
// preferences, media probing knobs, and logging options the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// trimmed values, canonical log formats, and clear validation errors.
package config
