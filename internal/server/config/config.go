// Package config handles configuration for the server component, including
// defaults, JSON overlay, environment overlay and command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the Lumen server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: optional PostgreSQL DSN (pgx); empty selects JSON files.
//   - DataDir: directory for the JSON file backend.
//   - SnapshotInterval: how often dirty state is flushed to storage.
//   - RateLimit / RateLimitWindow: fixed-window limiter for the admin tier.
//   - AdminUser / AdminPassword: basic-auth credential for the admin surface.
//   - HackDecoyPassword / HackEasyPassword / HackHardPassword: hacking quest
//     secrets, all required non-empty at startup. The easy and hard secrets
//     have no defaults and must be configured.
//   - HackRedirectURL: where the decoy password sends the caller.
//   - QuestAnswers: category -> difficulty -> expected answer, normally
//     supplied through QUEST_ANSWER_* environment variables.
//   - S3*: optional snapshot mirror; empty bucket disables it.
type Config struct {
	EndpointAddr     string
	DatabaseDSN      string
	DataDir          string
	SnapshotInterval time.Duration

	RateLimit       int
	RateLimitWindow time.Duration

	AdminUser     string
	AdminPassword string

	HackDecoyPassword string
	HackEasyPassword  string
	HackHardPassword  string
	HackRedirectURL   string

	QuestAnswers map[string]map[string]string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with development defaults. The easy and hard
// hacking secrets and the admin password are deliberately left empty;
// Validate rejects a config that does not supply them.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.DataDir = "./data"
	c.SnapshotInterval = 500 * time.Millisecond
	c.RateLimit = 10
	c.RateLimitWindow = time.Minute
	c.AdminUser = "admin"
	c.HackDecoyPassword = "admin123"
	c.HackEasyPassword = ""
	c.HackRedirectURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	c.QuestAnswers = make(map[string]map[string]string)
	c.S3Region = "us-east-1"
}

// Validate reports missing required settings. Missing configuration is the
// only fatal startup condition. All three hacking secrets must be non-empty:
// an empty secret would match an empty submitted password.
func (c *Config) Validate() error {
	if c.HackDecoyPassword == "" {
		return errors.New("hack decoy password is required (HACK_DECOY_PASSWORD)")
	}
	if c.HackEasyPassword == "" {
		return errors.New("hack easy password is required (HACK_EASY_PASSWORD)")
	}
	if c.HackHardPassword == "" {
		return errors.New("hack hard password is required (HACK_HARD_PASSWORD)")
	}
	if c.AdminUser == "" || c.AdminPassword == "" {
		return errors.New("admin credentials are required (ADMIN_USER, ADMIN_PASSWORD)")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
