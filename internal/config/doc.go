// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A missing file is not an error for the CLI: Default() yields a working
// configuration for a controller at DefaultHost.
package config
