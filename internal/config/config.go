package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	MigrationsPath string

	// Upstream event stream
	KafkaBrokers string
	KafkaTopic   string

	// Idempotency store
	RedisURL string

	// Push connections
	AllowedOrigins   string
	SessionQueueSize int
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-events"),

		RedisURL: getEnv("REDIS_URL", ""),

		AllowedOrigins:   getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		SessionQueueSize: getEnvInt("SESSION_QUEUE_SIZE", 64),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
