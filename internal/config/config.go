// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"portfolio-tracker/pkg/db" // Import db package for its Config struct
)

// DefaultAccessTokenTTL matches the 30 day lifetime handed out to the web client.
const DefaultAccessTokenTTL = 30 * 24 * time.Hour

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort         string
	DB                 db.Config
	SecretKey          string
	AccessTokenTTL     time.Duration
	CORSAllowedOrigins []string
	AutoMigrate        bool
	LogLevel           string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: must be positive, got %s", ttl)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
	}

	return &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "portfoliodb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SecretKey:          getEnv("SECRET_KEY", "your-secret-key-change-this-in-production"),
		AccessTokenTTL:     ttl,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		AutoMigrate:        autoMigrate,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}, nil
}

// getEnv returns the value of key, or fallback when it is unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
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
