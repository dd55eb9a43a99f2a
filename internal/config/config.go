package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	CGT      CGTConfig
	Report   ReportConfig
	Security SecurityConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// CGTConfig holds calculation engine settings
type CGTConfig struct {
	CarryForwardLosses bool
	Workers            int
}

// ReportConfig holds report rendering and caching settings
type ReportConfig struct {
	DecimalPlaces int
	CacheTTL      time.Duration
	WarmSchedule  string // cron spec, empty disables the warm job
}

// SecurityConfig holds secrets. Empty values disable the feature.
type SecurityConfig struct {
	APIKey          string
	ContractNoteKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	carryForward, err := getEnvBool("CGT_CARRY_FORWARD_LOSSES", false)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("CGT_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, fmt.Errorf("CGT_WORKERS must be at least 1, got %d", workers)
	}
	places, err := getEnvInt("REPORT_DECIMAL_PLACES", 2)
	if err != nil {
		return nil, err
	}
	if places < 0 || places > 12 {
		return nil, fmt.Errorf("REPORT_DECIMAL_PLACES must be between 0 and 12, got %d", places)
	}
	ttl, err := getEnvDuration("REPORT_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	pretty, err := getEnvBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/finagle.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		CGT: CGTConfig{
			CarryForwardLosses: carryForward,
			Workers:            workers,
		},
		Report: ReportConfig{
			DecimalPlaces: places,
			CacheTTL:      ttl,
			WarmSchedule:  os.Getenv("REPORT_WARM_SCHEDULE"),
		},
		Security: SecurityConfig{
			APIKey:          os.Getenv("API_KEY"),
			ContractNoteKey: os.Getenv("CONTRACT_NOTE_KEY"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
