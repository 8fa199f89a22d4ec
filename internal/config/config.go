package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	DBPath         string
	MasterKey      string
	WebhookTimeout time.Duration
	RateLimits     RateLimits
}

type RateLimits struct {
	WritePerMinute int
}

func Load() Config {
	// Best-effort: a missing .env is not an error.
	_ = godotenv.Load()

	addr := envString("FORUMKIT_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	return Config{
		Addr:           addr,
		DBPath:         envString("FORUMKIT_DB", "forumkit.db"),
		MasterKey:      envString("FORUMKIT_MASTER_KEY", "dev-master-key"),
		WebhookTimeout: envDuration("FORUMKIT_WEBHOOK_TIMEOUT", 10*time.Second),
		RateLimits: RateLimits{
			WritePerMinute: envInt("FORUMKIT_RL_WRITE_PER_MIN", 120),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
