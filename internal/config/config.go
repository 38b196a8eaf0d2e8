package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Stripe    StripeConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	Env       string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// StripeConfig holds Stripe API configuration.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Campaign      string
	Organization  string
}

// RateLimitConfig holds intent-endpoint rate limiting configuration.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// DatabaseConfig holds PostgreSQL configuration for the donation ledger.
// The ledger is optional: with no host configured the webhook receiver
// stays log-only.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a ledger database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// DSN builds a lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration for the shared rate-limit store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a shared rate-limit store is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			AllowedOrigins: getListEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Campaign:      getEnv("DONATION_CAMPAIGN", "general-fund"),
			Organization:  getEnv("ORGANIZATION_NAME", "Community Nonprofit"),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 10),
			Window:   getDurationEnv("RATE_LIMIT_WINDOW", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "donations"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "donation-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}
}

// Validate checks the Stripe key shapes and returns human-readable warnings.
// Callers log the warnings; a misconfigured key is not fatal at startup
// because the endpoints surface their own errors per request.
func (c StripeConfig) Validate() []string {
	var warnings []string

	if c.SecretKey == "" {
		warnings = append(warnings, "STRIPE_SECRET_KEY is not set")
	} else if !strings.HasPrefix(c.SecretKey, "sk_") {
		warnings = append(warnings, "STRIPE_SECRET_KEY does not start with sk_")
	}

	if c.WebhookSecret == "" {
		warnings = append(warnings, "STRIPE_WEBHOOK_SECRET is not set; webhook verification will reject all events")
	} else if !strings.HasPrefix(c.WebhookSecret, "whsec_") {
		warnings = append(warnings, "STRIPE_WEBHOOK_SECRET does not start with whsec_")
	}

	return warnings
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
