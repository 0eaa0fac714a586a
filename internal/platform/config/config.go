// Package config builds runtime configuration from environment variables so
// main stays lean. Empty infrastructure settings disable the corresponding
// dependency: no DSN means in-memory stores, no brokers means no audit
// publishing, no Redis means no rate limiting.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the full server configuration.
type Config struct {
	Addr          string
	JWTSigningKey string

	// RatesPath points at the YAML rate tables. Empty falls back to the
	// compiled-in defaults for the current years.
	RatesPath string

	PostgresDSN string
	Redis       RedisConfig
	Kafka       KafkaConfig

	RateLimitPerMinute int
	ShutdownTimeout    time.Duration
}

// RedisConfig captures Redis connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig captures audit stream settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("FIDUCIA_ADDR", ":8080"),
		JWTSigningKey: envOr("FIDUCIA_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RatesPath:     os.Getenv("FIDUCIA_RATES_PATH"),
		PostgresDSN:   os.Getenv("FIDUCIA_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("FIDUCIA_REDIS_URL"),
			PoolSize:     envInt("FIDUCIA_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("FIDUCIA_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: envOr("FIDUCIA_AUDIT_TOPIC", "fiducia.audit.events"),
		},
		RateLimitPerMinute: envInt("FIDUCIA_RATE_LIMIT_PER_MINUTE", 120),
		ShutdownTimeout:    10 * time.Second,
	}

	if brokers := os.Getenv("FIDUCIA_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
