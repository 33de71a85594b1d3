package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv    string
	LogLevel  string
	LogFormat string

	HTTPPort int
	GRPCPort int

	Currency    string
	CheckoutURL string
	ToastDelay  time.Duration

	CatalogSource string
	CatalogFile   string

	HandoffBackend string
	HandoffKey     string
	HandoffTTL     time.Duration

	SessionTTL  time.Duration
	MaxSessions int

	Redis    RedisConfig
	Postgres PostgresConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	SSLMode  string
}

const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"

	HandoffMemory = "memory"
	HandoffRedis  = "redis"
)

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set take precedence over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:    getEnv("APP_ENV", "dev"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		HTTPPort:  getEnvInt("HTTP_PORT", 8080),
		GRPCPort:  getEnvInt("GRPC_PORT", 8081),

		Currency:    getEnv("CURRENCY", "EGP"),
		CheckoutURL: getEnv("CHECKOUT_URL", "checkout.html"),
		ToastDelay:  getEnvDuration("TOAST_DELAY", 3*time.Second),

		CatalogSource: getEnv("CATALOG_SOURCE", CatalogEmbedded),
		CatalogFile:   getEnv("CATALOG_FILE", "catalog.yaml"),

		HandoffBackend: getEnv("HANDOFF_BACKEND", HandoffMemory),
		HandoffKey:     getEnv("HANDOFF_KEY", "qamarCart"),
		HandoffTTL:     getEnvDuration("HANDOFF_TTL", 30*time.Minute),

		SessionTTL:  getEnvDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions: getEnvInt("SESSION_MAX", 10000),

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "storefront"),
			Password: getEnv("POSTGRES_PASSWORD", "storefront"),
			DB:       getEnv("POSTGRES_DB", "storefront"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
