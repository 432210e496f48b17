package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every setting of the storefront service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Webhook  WebhookConfig
	Upload   UploadConfig
	Cron     CronConfig
	LogLevel string
}

// ServerConfig - HTTP listener settings.
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - PostgreSQL connection settings. All persistence
// (products, categories, orders, users, reviews) lives in one database.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - cache for product and category listings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - domain event topic (ORDER_CREATED, ORDER_STATUS_CHANGED,
// REVIEW_CREATED).
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JWTConfig - token signing for storefront and admin authentication.
type JWTConfig struct {
	Secret         string
	AccessTTLHours int
}

// WebhookConfig - reservation relay target. The timeout bounds the
// outbound call so a slow workflow endpoint cannot stall a booking.
type WebhookConfig struct {
	URL        string
	Token      string
	TimeoutSec int
}

// UploadConfig - admin product image uploads.
type UploadConfig struct {
	Dir          string
	MaxSizeBytes int64
}

// CronConfig - stale pending order expiry.
type CronConfig struct {
	Schedule      string
	ExpireAfterHr int
}

// Load reads the configuration from environment variables with literal
// fallbacks for local development.
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	jwtTTL, err := strconv.Atoi(getEnv("JWT_ACCESS_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TTL_HOURS value: %w", err)
	}

	webhookTimeout, err := strconv.Atoi(getEnv("RESERVATION_WEBHOOK_TIMEOUT_SEC", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESERVATION_WEBHOOK_TIMEOUT_SEC value: %w", err)
	}

	expireAfter, err := strconv.Atoi(getEnv("ORDER_EXPIRE_AFTER_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_EXPIRE_AFTER_HOURS value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "carshine"),
			Password: getEnv("DB_PASSWORD", "carshine"),
			DBName:   getEnv("DB_NAME", "carshine"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "order_events"),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			AccessTTLHours: jwtTTL,
		},
		Webhook: WebhookConfig{
			URL:        getEnv("RESERVATION_WEBHOOK_URL", ""),
			Token:      getEnv("RESERVATION_WEBHOOK_TOKEN", ""),
			TimeoutSec: webhookTimeout,
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "./uploads"),
			MaxSizeBytes: 5 << 20, // 5MB cap on product images
		},
		Cron: CronConfig{
			Schedule:      getEnv("ORDER_EXPIRY_SCHEDULE", "*/15 * * * *"),
			ExpireAfterHr: expireAfter,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN returns the PostgreSQL connection string in libpq format.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format for pgx.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address returns host:port for the HTTP server.
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address returns host:port for the Redis client.
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
