package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/lumenfest/lumen/internal/flagx"
	"github.com/lumenfest/lumen/internal/timex"
)

// JsonConfig is the intermediate DTO for JSON configuration files. It uses
// timex.Duration for interval fields, which parses both string values such
// as "500ms" and integer nanoseconds. Secrets deliberately have no JSON
// representation; they come from the environment.
type JsonConfig struct {
	EndpointAddr     string         `json:"endpoint_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	DataDir          string         `json:"data_dir"`
	SnapshotInterval timex.Duration `json:"snapshot_interval"`
	RateLimit        int            `json:"rate_limit"`
	RateLimitWindow  timex.Duration `json:"rate_limit_window"`
	HackRedirectURL  string         `json:"hack_redirect_url"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags. If neither flag is set, nothing is loaded. An unreadable
// or invalid file panics; a config file that is present but broken should
// stop the process immediately.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.DataDir != "" {
		config.DataDir = c.DataDir
	}
	if c.SnapshotInterval.Duration != 0 {
		config.SnapshotInterval = time.Duration(c.SnapshotInterval.Duration)
	}
	if c.RateLimit != 0 {
		config.RateLimit = c.RateLimit
	}
	if c.RateLimitWindow.Duration != 0 {
		config.RateLimitWindow = time.Duration(c.RateLimitWindow.Duration)
	}
	if c.HackRedirectURL != "" {
		config.HackRedirectURL = c.HackRedirectURL
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
