package config

import (
	"flag"
	"os"
	"time"

	"github.com/lumenfest/lumen/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty selects the JSON file backend)
//	-f string   data directory for the JSON file backend
//	-i int      snapshot interval, milliseconds
//	-l int      admin rate limit (requests per window)
//	-w int      admin rate limit window, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-f", "-i", "-l", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory")

	snapshotIntervalMs := fs.Int("i", int(config.SnapshotInterval.Milliseconds()), "snapshot interval (in milliseconds)")
	fs.IntVar(&config.RateLimit, "l", config.RateLimit, "admin rate limit per window")
	rateLimitWindowSec := fs.Int("w", int(config.RateLimitWindow.Seconds()), "admin rate limit window (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SnapshotInterval = time.Duration(*snapshotIntervalMs) * time.Millisecond
	config.RateLimitWindow = time.Duration(*rateLimitWindowSec) * time.Second
}
