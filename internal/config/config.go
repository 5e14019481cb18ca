package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Backend BackendConfig
	Storage StorageConfig
	Polling PollingConfig
	Server  ServerConfig
	Sandbox SandboxConfig
	Log     LogConfig
}

type BackendConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Language  string
	EventSlug string
}

type StorageConfig struct {
	Driver    string // sqlite, redis or memory
	Path      string
	RedisAddr string
	CartKey   string
}

type PollingConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

type ServerConfig struct {
	Port           string
	Host           string
	Env            string
	AllowedOrigins []string
	StorefrontURL  string // where the hosted card page sends the buyer back
}

type SandboxConfig struct {
	ConfirmAfter  int    // status checks before a mobile money payment completes
	PublicBaseURL string // used to build card redirect URLs
}

type LogConfig struct {
	Level string
}

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	port := getEnv("PORT", "5000")
	host := getEnv("HOST", "localhost")

	config := &Config{
		Backend: BackendConfig{
			BaseURL:   strings.TrimRight(getEnv("API_URL", "http://localhost:5000/api/v1"), "/"),
			Timeout:   getEnvAsDuration("API_TIMEOUT", 30*time.Second),
			Language:  getEnv("LANGUAGE", "fr"),
			EventSlug: getEnv("EVENT_SLUG", "adorons-ensemble"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageSQLite)),
			Path:      getEnv("STORAGE_PATH", "storefront.db"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
			CartKey:   getEnv("CART_KEY", "cart"),
		},
		Polling: PollingConfig{
			Interval:    getEnvAsDuration("POLL_INTERVAL", 3*time.Second),
			MaxAttempts: getEnvAsInt("POLL_MAX_ATTEMPTS", 20),
		},
		Server: ServerConfig{
			Port:           port,
			Host:           host,
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			StorefrontURL:  strings.TrimRight(getEnv("STOREFRONT_URL", ""), "/"),
		},
		Sandbox: SandboxConfig{
			ConfirmAfter:  getEnvAsInt("SANDBOX_CONFIRM_AFTER", 3),
			PublicBaseURL: strings.TrimRight(getEnv("SANDBOX_PUBLIC_URL", "http://"+host+":"+port), "/"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var list []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
