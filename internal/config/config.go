package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppEnv string
	Port   string

	// Postgres
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string

	// Redis (optional; empty addr disables Redis-backed cache and queue)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Flight data providers
	AviationStackBaseURL string
	AviationStackKey     string
	AeroDataBoxBaseURL   string
	AeroDataBoxKey       string
	FetchTimeout         time.Duration

	// Engine tuning
	BatchSize       int
	InterBatchDelay time.Duration
	PollInterval    time.Duration
	PollEnabled     bool
	CronSecret      string

	// Notifications
	WebhookEndpoint string
	NotifyStream    string

	// Auth
	JWTSecret string
}

// Load reads configuration from the environment, with .env overrides
// for local development.
func Load() *Config {
	godotenv.Load()

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     getEnv("PG_USER", "flightwatch"),
		PGPassword: getEnv("PG_PASSWORD", ""),
		PGDatabase: getEnv("PG_DB", "flightwatch"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		AviationStackBaseURL: getEnv("AVIATIONSTACK_BASE_URL", "https://api.aviationstack.com/v1"),
		AviationStackKey:     getEnv("AVIATIONSTACK_API_KEY", ""),
		AeroDataBoxBaseURL:   getEnv("AERODATABOX_BASE_URL", "https://aerodatabox.p.rapidapi.com"),
		AeroDataBoxKey:       getEnv("AERODATABOX_API_KEY", ""),
		FetchTimeout:         getEnvAsDuration("FETCH_TIMEOUT_SECONDS", 15*time.Second),

		BatchSize:       getEnvAsInt("ENGINE_BATCH_SIZE", 5),
		InterBatchDelay: getEnvAsDuration("ENGINE_BATCH_DELAY_SECONDS", 2*time.Second),
		PollInterval:    getEnvAsDuration("ENGINE_POLL_INTERVAL_SECONDS", 60*time.Second),
		PollEnabled:     getEnvAsBool("ENGINE_POLL_ENABLED", true),
		CronSecret:      getEnv("CRON_SECRET", ""),

		WebhookEndpoint: getEnv("NOTIFY_WEBHOOK_ENDPOINT", ""),
		NotifyStream:    getEnv("NOTIFY_STREAM", "flightwatch:notifications"),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

// PostgresDSN assembles the connection string used by both sqlx and GORM.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return time.Duration(value) * time.Second
	}
	return defaultValue
}
