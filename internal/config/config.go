package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Asaas     AsaasConfig
	Queue     QueueConfig
	RateLimit RateLimitConfig
	Expiry    ExpiryConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AsaasConfig holds payment gateway configuration
type AsaasConfig struct {
	APIURL       string
	APIKey       string
	WebhookToken string
	Timeout      time.Duration
}

// QueueConfig holds report worker queue configuration
type QueueConfig struct {
	Stream          string
	DispatchTimeout time.Duration
}

// ExpiryConfig holds the stale-purchase sweeper configuration
type ExpiryConfig struct {
	Interval   time.Duration
	PendingTTL time.Duration
}

// RateLimitRule holds one per-action fixed-window limit
type RateLimitRule struct {
	MaxRequests int
	Window      time.Duration
}

// RateLimitConfig holds the per-action limits. Actions absent here are not
// limited at all.
type RateLimitConfig struct {
	Rules map[string]RateLimitRule
}

// Known rate-limit actions
const (
	ActionWebhook = "webhook"
	ActionAdmin   = "admin"
	ActionLogin   = "login"
	ActionPublic  = "public"
)

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "doccheck"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Asaas: AsaasConfig{
			APIURL:       getEnv("ASAAS_API_URL", "https://api.asaas.com"),
			APIKey:       getEnv("ASAAS_API_KEY", ""),
			WebhookToken: getEnv("ASAAS_WEBHOOK_TOKEN", ""),
			Timeout:      getEnvAsDuration("ASAAS_TIMEOUT", 15*time.Second),
		},
		Queue: QueueConfig{
			Stream:          getEnv("QUEUE_STREAM", "report:jobs"),
			DispatchTimeout: getEnvAsDuration("QUEUE_DISPATCH_TIMEOUT", 5*time.Second),
		},
		Expiry: ExpiryConfig{
			Interval:   getEnvAsDuration("PURCHASE_EXPIRY_INTERVAL", 5*time.Minute),
			PendingTTL: getEnvAsDuration("PURCHASE_PENDING_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Rules: map[string]RateLimitRule{
				ActionWebhook: {
					MaxRequests: getEnvAsInt("RATE_LIMIT_WEBHOOK_MAX", 120),
					Window:      getEnvAsDuration("RATE_LIMIT_WEBHOOK_WINDOW", time.Minute),
				},
				ActionAdmin: {
					MaxRequests: getEnvAsInt("RATE_LIMIT_ADMIN_MAX", 30),
					Window:      getEnvAsDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
				},
				ActionLogin: {
					MaxRequests: getEnvAsInt("RATE_LIMIT_LOGIN_MAX", 10),
					Window:      getEnvAsDuration("RATE_LIMIT_LOGIN_WINDOW", 5*time.Minute),
				},
				ActionPublic: {
					MaxRequests: getEnvAsInt("RATE_LIMIT_PUBLIC_MAX", 60),
					Window:      getEnvAsDuration("RATE_LIMIT_PUBLIC_WINDOW", time.Minute),
				},
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
