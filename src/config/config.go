package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string `validate:"required,numeric"`
	LogLevel           string `validate:"required,oneof=debug info warn warning error"`
	MaxUploadSizeBytes int64  `validate:"gt=0"`

	// DefaultDataPath is preloaded at startup when the file exists.
	DefaultDataPath string

	CacheExpiry          time.Duration `validate:"gt=0"`
	CacheCleanupInterval time.Duration `validate:"gt=0"`

	AllowedOrigins []string `validate:"dive,required"`
	RateLimitRPS   float64  `validate:"gt=0"`
	RateLimitBurst int      `validate:"gt=0"`
}

var Cfg *AppConfig

var validate = validator.New()

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}
	Cfg = cfg

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DefaultDataPath=%s, CacheExpiry=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DefaultDataPath, Cfg.CacheExpiry)
}

// FromEnv builds and validates a config from the current environment without touching Cfg.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		MaxUploadSizeBytes: getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", 10*1024*1024),

		DefaultDataPath: getEnv("DEFAULT_DATA_PATH", "data/allsportsbets(2025).csv"),

		CacheExpiry:          getEnvAsDuration("CACHE_EXPIRY", 30*time.Minute),
		CacheCleanupInterval: getEnvAsDuration("CACHE_CLEANUP_INTERVAL", 60*time.Minute),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 30),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
