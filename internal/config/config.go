package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// DefaultModels is the console model list used until one is saved
var DefaultModels = []string{
	"Axios 16", "Axios 24", "Axios 32",
	"Atrium 12", "Atrium 20", "Atrium 32",
	"Axios 8", "Atrium 8",
	"StagePro 16", "StagePro 24",
	"PRISMA 480", "VIRTUS480",
}

// Config holds all application configuration
type Config struct {
	Env      string
	LogLevel string
	Database DatabaseConfig
	Redis    RedisConfig
	API      APIConfig
	Store    StoreConfig
	Queue    QueueConfig
	Support  SupportConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL       string
	KeyPrefix string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port           int
	AllowedOrigins []string
}

// StoreConfig selects the key-value backend for settings, notes and sessions
type StoreConfig struct {
	Driver string
}

// QueueConfig holds the asynchronous handoff audit queue configuration
type QueueConfig struct {
	Enabled     bool
	Name        string
	Concurrency int
	MaxRetries  int
}

// SupportConfig holds the desk's deployment wording and defaults
type SupportConfig struct {
	DefaultPhone  string
	Models        []string
	Brand         string
	ChannelName   string
	MessageLocale string
	SessionTTL    time.Duration
	AdminUser     string
	AdminPassword string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	dbEnabled, err := strconv.ParseBool(getEnv("DB_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_ENABLED: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL: must be positive")
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreDriverRedis))
	switch driver {
	case StoreDriverRedis, StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %s (must be 'redis', 'postgres' or 'memory')", driver)
	}
	if driver == StoreDriverPostgres && !dbEnabled {
		return nil, fmt.Errorf("STORE_DRIVER=postgres requires DB_ENABLED=true")
	}

	queueEnabled, err := strconv.ParseBool(getEnv("HANDOFF_QUEUE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid HANDOFF_QUEUE_ENABLED: %w", err)
	}
	if queueEnabled && !dbEnabled {
		return nil, fmt.Errorf("HANDOFF_QUEUE_ENABLED=true requires DB_ENABLED=true")
	}

	concurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	maxRetries, err := strconv.Atoi(getEnv("WORKER_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_MAX_RETRIES: %w", err)
	}

	models := splitList(os.Getenv("SUPPORT_MODELS"))
	if len(models) == 0 {
		models = append([]string(nil), DefaultModels...)
	}

	return &Config{
		Env:      getEnv("APP_ENV", "production"),
		LogLevel: os.Getenv("LOG_LEVEL"),
		Database: DatabaseConfig{
			Enabled:  dbEnabled,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "support_desk"),
			Password: getEnv("DB_PASSWORD", "support_desk"),
			DBName:   getEnv("DB_NAME", "support_desk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "desk:"),
		},
		API: APIConfig{
			Port:           apiPort,
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Store: StoreConfig{
			Driver: driver,
		},
		Queue: QueueConfig{
			Enabled:     queueEnabled,
			Name:        getEnv("HANDOFF_QUEUE_NAME", "desk:handoffs"),
			Concurrency: concurrency,
			MaxRetries:  maxRetries,
		},
		Support: SupportConfig{
			DefaultPhone:  getEnv("SUPPORT_DEFAULT_PHONE", "+5511910251959"),
			Models:        models,
			Brand:         getEnv("SUPPORT_BRAND", "Duonn Sound"),
			ChannelName:   getEnv("SUPPORT_CHANNEL", "SAC"),
			MessageLocale: getEnv("SUPPORT_LOCALE", "pt-BR"),
			SessionTTL:    sessionTTL,
			AdminUser:     os.Getenv("SUPPORT_ADMIN_USER"),
			AdminPassword: os.Getenv("SUPPORT_ADMIN_PASSWORD"),
		},
	}, nil
}

// IsDevelopment reports whether APP_ENV is "development"
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping blank entries
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
