package config

import "time"

// Config holds runtime settings for the recordings CLI.
//
// Fields:
//   - BackendBaseURL: base URL of the application backend (signatures,
//     registration).
//   - UploadBaseURL: base URL of the media host that receives chunks.
//   - DatabasePath: path of the SQLite file backing the local queue.
//   - RequestTimeout: per-request bound for backend and media host calls.
//   - FragmentInterval: how often the capture backend emits a fragment.
//
// Units: RequestTimeout and FragmentInterval are time.Durations.
type Config struct {
	BackendBaseURL   string
	UploadBaseURL    string
	DatabasePath     string
	RequestTimeout   time.Duration
	FragmentInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendBaseURL = "http://127.0.0.1:8080"
	c.UploadBaseURL = "https://api.cloudinary.com"
	c.DatabasePath = "recordings.db"
	c.RequestTimeout = 30 * time.Second
	c.FragmentInterval = time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
