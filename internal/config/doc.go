// Package config loads, normalizes, and validates the TOML configuration
// for the daemon and CLI.
//
// Load resolves the config path (explicit flag, ~/.config/bookdroplist, or
// a project-local bookdroplist.toml), layers the file over repository
// defaults, expands ~ in path fields, and validates the result. A missing
// file is not an error; the defaults keep catalog search and list storage
// working, while features that need credentials (vision extraction,
// geocoding) report ConfigurationError at call time.
package config
