// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pkordes/tourbook/internal/domain"
)

// Persistence backends for itinerary snapshots.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string of the content repository. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// DefaultLocale is the fallback content locale. Defaults to "pt".
	DefaultLocale domain.Locale

	// WhatsAppHost is the deep link host. Defaults to "wa.me".
	WhatsAppHost string

	// WhatsAppNumber is the operator number booking requests are sent to. Required.
	WhatsAppNumber string

	// PersistenceBackend selects where itinerary snapshots live:
	// postgres (default), redis or memory.
	PersistenceBackend string

	// RedisURL is required when PersistenceBackend is redis.
	RedisURL string

	// SessionTTL is how long an idle itinerary stays in memory, and how long
	// Redis keeps its snapshot. Defaults to 24h.
	SessionTTL time.Duration

	// CheckoutRatePerMin caps checkouts per client IP. Defaults to 5.
	CheckoutRatePerMin int

	// MaxBodyBytes caps request bodies. Defaults to 64 KiB.
	MaxBodyBytes int64

	// MigrateOnStart applies pending goose migrations at startup. Defaults to false.
	MigrateOnStart bool

	// CookieSecure marks the itinerary session cookie Secure. Enable it
	// when the API is served over HTTPS. Defaults to false.
	CookieSecure bool
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is read first when present; variables
// already set in the environment win over it.
// Returns an error listing any required variables that are not set, or any
// value that cannot be parsed.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		WhatsAppHost:       getEnv("WHATSAPP_HOST", "wa.me"),
		PersistenceBackend: strings.ToLower(getEnv("PERSISTENCE_BACKEND", BackendPostgres)),
		RedisURL:           os.Getenv("REDIS_URL"),
	}

	var missing, invalid []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.WhatsAppNumber = os.Getenv("WHATSAPP_NUMBER")
	if cfg.WhatsAppNumber == "" {
		missing = append(missing, "WHATSAPP_NUMBER")
	}

	locale, ok := domain.ParseLocale(getEnv("DEFAULT_LOCALE", string(domain.LocalePT)))
	if !ok {
		invalid = append(invalid, "DEFAULT_LOCALE")
	}
	cfg.DefaultLocale = locale

	switch cfg.PersistenceBackend {
	case BackendPostgres, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			missing = append(missing, "REDIS_URL")
		}
	default:
		invalid = append(invalid, "PERSISTENCE_BACKEND")
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil || cfg.SessionTTL < 0 {
		invalid = append(invalid, "SESSION_TTL")
	}
	if cfg.CheckoutRatePerMin, err = strconv.Atoi(getEnv("CHECKOUT_RATE_PER_MIN", "5")); err != nil || cfg.CheckoutRatePerMin < 1 {
		invalid = append(invalid, "CHECKOUT_RATE_PER_MIN")
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "65536"), 10, 64); err != nil || cfg.MaxBodyBytes < 1 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	if cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false")); err != nil {
		invalid = append(invalid, "MIGRATE_ON_START")
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getEnv("COOKIE_SECURE", "false")); err != nil {
		invalid = append(invalid, "COOKIE_SECURE")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
