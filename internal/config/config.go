// Package config loads service settings from the environment and the
// per-workspace CLI actor file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the service settings.
type Config struct {
	// Application
	AppEnv     string
	Port       string
	CORSOrigin string

	// Storage
	DBPath   string
	RedisURL string // empty uses the in-memory session store

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Rating prompt sessions
	RatingSessionTTL time.Duration

	// Observability (optional)
	SentryDSN string
}

// Load reads .env when present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &Config{
		AppEnv:     envString("QUITPLAN_ENV", EnvDevelopment),
		Port:       envString("PORT", "8080"),
		CORSOrigin: envString("CORS_ORIGIN", "http://localhost:5173"),

		DBPath:   envString("DB_PATH", defaultDBPath()),
		RedisURL: envString("REDIS_URL", ""),

		JWTSecret: envString("JWT_SECRET", ""),
		JWTExpiry: envDuration("JWT_EXPIRY", 24*time.Hour),

		RatingSessionTTL: envDuration("RATING_SESSION_TTL", 12*time.Hour),

		SentryDSN: envString("SENTRY_DSN", ""),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quitplan.db"
	}
	return filepath.Join(home, ".quitplan", "quitplan.db")
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}
