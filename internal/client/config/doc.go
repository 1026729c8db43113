// Package config loads runtime configuration for the recordings CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   base URL of the application backend
//	-u string   base URL of the media host
//	-d string   path of the local queue database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "backend_base_url": "http://127.0.0.1:8080",
//	  "upload_base_url": "https://api.cloudinary.com",
//	  "database_path": "recordings.db",
//	  "request_timeout": "30s",
//	  "fragment_interval": "1s"
//	}
//
// Primary API
//
//   - type Config                     - runtime settings for the CLI
//   - func LoadConfig() *Config       - builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   - sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
