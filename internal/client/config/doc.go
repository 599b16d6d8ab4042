// Package config loads runtime configuration for the budget CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c/--config. Files ending in
//     ".toml" are read as TOML, anything else as JSON.
//  3. Command-line flags that were set explicitly.
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "access_token": "eyJ...",
//	  "data_dir": ".budget",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s"
//	}
//
// Note: This package does not read environment variables directly; use the
// config file or flags to configure values.
package config
