// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings of the API server.
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	DBMaxConns  int

	JWTSecret string
	JWTTTL    time.Duration

	// RedisURL is optional; fixed costs fall back to an in-process cache when empty.
	RedisURL         string
	FixedCostsTTL    time.Duration
	CORSOrigins      []string
	MigrateOnStart   bool
	NotifyBufferSize int
	MetricsNamespace string
}

// Development reports whether the service runs in development mode.
func (c Config) Development() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := Config{
		Port:             getEnv("APP_PORT", "8080"),
		Env:              getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBMaxConns:       getEnvInt("DB_MAX_CONNS", 25),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           getEnvDuration("JWT_TTL", 24*time.Hour),
		RedisURL:         os.Getenv("REDIS_URL"),
		FixedCostsTTL:    getEnvDuration("FIXED_COSTS_CACHE_TTL", 10*time.Minute),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		MigrateOnStart:   getEnv("MIGRATE_ON_START", "false") == "true",
		NotifyBufferSize: getEnvInt("NOTIFY_BUFFER", 16),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "kitchenledger"),
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("required environment variable DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		if !cfg.Development() {
			return cfg, fmt.Errorf("required environment variable JWT_SECRET not set")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}
	if cfg.NotifyBufferSize < 1 {
		cfg.NotifyBufferSize = 1
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
