// Package config provides configuration management for availwin.
//
// Precedence is ENV > file > defaults. The YAML file is parsed strictly:
// unknown keys fail the load with ErrUnknownConfigField. Holder keeps the
// live configuration and swaps it atomically on reload; a configuration
// that fails validation never replaces the current one.
package config
