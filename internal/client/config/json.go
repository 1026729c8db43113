package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/flagx"
	"github.com/TravisBumgarner/just-recordings/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	BackendBaseURL   string         `json:"backend_base_url"`
	UploadBaseURL    string         `json:"upload_base_url"`
	DatabasePath     string         `json:"database_path"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	FragmentInterval timex.Duration `json:"fragment_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.BackendBaseURL = jc.BackendBaseURL
	cfg.UploadBaseURL = jc.UploadBaseURL
	cfg.DatabasePath = jc.DatabasePath
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.FragmentInterval = time.Duration(jc.FragmentInterval.Duration)
}
