package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays configuration from environment variables. Secrets (quest
// answers, hacking passwords, admin and S3 credentials) are only configurable
// here, never through the JSON file or flags.
//
// Quest answers use the pattern QUEST_ANSWER_<CATEGORY>_<DIFFICULTY>, e.g.
//
//	QUEST_ANSWER_CIPHER_EASY=lantern
func parseEnv(config *Config) {
	setString := func(key string, target *string) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("DATA_DIR", &config.DataDir)
	setString("ADMIN_USER", &config.AdminUser)
	setString("ADMIN_PASSWORD", &config.AdminPassword)
	setString("HACK_DECOY_PASSWORD", &config.HackDecoyPassword)
	setString("HACK_EASY_PASSWORD", &config.HackEasyPassword)
	setString("HACK_HARD_PASSWORD", &config.HackHardPassword)
	setString("HACK_REDIRECT_URL", &config.HackRedirectURL)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("SNAPSHOT_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SnapshotInterval = d
		}
	}
	if v, ok := os.LookupEnv("RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimit = n
		}
	}
	if v, ok := os.LookupEnv("RATE_LIMIT_WINDOW"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.RateLimitWindow = d
		}
	}

	const answerPrefix = "QUEST_ANSWER_"
	for _, entry := range os.Environ() {
		key, value, _ := strings.Cut(entry, "=")
		if !strings.HasPrefix(key, answerPrefix) {
			continue
		}
		category, difficulty, found := strings.Cut(strings.TrimPrefix(key, answerPrefix), "_")
		if !found || category == "" || difficulty == "" {
			continue
		}
		category = strings.ToLower(category)
		difficulty = strings.ToLower(difficulty)
		if config.QuestAnswers[category] == nil {
			config.QuestAnswers[category] = make(map[string]string)
		}
		config.QuestAnswers[category][difficulty] = value
	}
}
