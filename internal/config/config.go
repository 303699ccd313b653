package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env               string
	Port              string
	CORSAllowedOrigin string

	// Session cookie
	SessionCookieName string
	SessionMaxAge     time.Duration
	CookieSecure      bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:               getEnv("ENV", "development"),
		Port:              getEnv("PORT", "3333"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "sessionId"),
	}

	maxAgeStr := getEnv("SESSION_MAX_AGE", "168h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil || maxAge <= 0 {
		log.Printf("Warning: invalid SESSION_MAX_AGE value '%s', falling back to 168h\n", maxAgeStr)
		maxAge = 7 * 24 * time.Hour
	}
	config.SessionMaxAge = maxAge

	secureStr := getEnv("COOKIE_SECURE", "false")
	secure, err := strconv.ParseBool(secureStr)
	if err != nil {
		log.Printf("Warning: invalid COOKIE_SECURE value '%s', falling back to false\n", secureStr)
	}
	config.CookieSecure = secure

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
