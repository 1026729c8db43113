package config

import (
	"flag"
	"os"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   base URL of the application backend (default from Config)
//	-u string   base URL of the media host (default from Config)
//	-d string   path of the local queue database (default from Config)
//	-t int      request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-u", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendBaseURL, "b", cfg.BackendBaseURL, "base URL of the application backend")
	fs.StringVar(&cfg.UploadBaseURL, "u", cfg.UploadBaseURL, "base URL of the media host")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local queue database")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
