// Package config loads the vpack user configuration.
//
// The configuration lives in a TOML file at $VPACK_CONFIG or
// $XDG_CONFIG_HOME/vpack/config.toml. A missing file is not an error: every
// key has a default, and command-line flags override whatever the file sets.
package config
