package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               string   `env:"PORT"                 envDefault:"8080"`
	DatabaseURL        string   `env:"DATABASE_URL"         envDefault:"file:db.sqlite"`
	AppEnv             string   `env:"APP_ENV"              envDefault:"local"`
	BaseURL            string   `env:"BASE_URL"             envDefault:"http://localhost:8080"`
	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string   `env:"GOOGLE_REDIRECT_URL"  envDefault:"http://localhost:8080/auth/google/callback"`
	JWTSecret          string   `env:"JWT_SECRET"           envDefault:"secret"`
	FrontendURL        string   `env:"FRONTEND_URL"         envDefault:"http://localhost:8080/dashboard"`
	AllowedEmails      []string `env:"ALLOWED_EMAILS"       envSeparator:","`

	// Optional; smart-link payloads are not cached when empty
	RedisURL          string        `env:"REDIS_URL"`
	SmartLinkCacheTTL time.Duration `env:"SMART_LINK_CACHE_TTL" envDefault:"60s"`

	TrackerQueueSize int    `env:"TRACKER_QUEUE_SIZE" envDefault:"256"`
	TrackerWorkers   int    `env:"TRACKER_WORKERS"    envDefault:"2"`
	TrackRateLimit   string `env:"TRACK_RATE_LIMIT"   envDefault:"120-M"` // ulule/limiter format
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedEmails = trimCSV(cfg.AllowedEmails)
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, strings.ToLower(v))
		}
	}
	return out
}
