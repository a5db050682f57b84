package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	CORSAllowedOrigins []string

	DatabaseHost     string
	DatabasePort     int
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string

	RedisURL string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	AuthRateLimit       int           // requests per window on auth endpoints
	AuthRateLimitWindow time.Duration

	ReportInterval time.Duration // how often the report worker runs
	SeedRooms      bool          // seed the sample catalog when empty
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DATABASE_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_PORT: %w", err)
	}

	tokenTTLMinutes, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "1440"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %w", err)
	}

	authRateLimit, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT: %w", err)
	}

	authRateWindowSec, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT_WINDOW_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT_WINDOW_SECONDS: %w", err)
	}

	reportIntervalHours, err := strconv.Atoi(getEnv("REPORT_INTERVAL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_INTERVAL_HOURS: %w", err)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  port,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),

		DatabaseHost:     getEnv("DATABASE_HOST", "localhost"),
		DatabasePort:     dbPort,
		DatabaseUser:     getEnv("DATABASE_USER", "roomreserve"),
		DatabasePassword: getEnv("DATABASE_PASSWORD", "dev"),
		DatabaseName:     getEnv("DATABASE_NAME", "roomreserve"),
		DatabaseSSLMode:  getEnv("DATABASE_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "roomreserve"),
		TokenTTL:  time.Duration(tokenTTLMinutes) * time.Minute,

		AuthRateLimit:       authRateLimit,
		AuthRateLimitWindow: time.Duration(authRateWindowSec) * time.Second,

		ReportInterval: time.Duration(reportIntervalHours) * time.Hour,
		SeedRooms:      parseBoolEnv("SEED_ROOMS", true),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
