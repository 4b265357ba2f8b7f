// Package config loads the ayamark configuration from a TOML file, with
// defaults matching the published data set and AYAMARK_* environment
// variable overrides for scripting.
package config
