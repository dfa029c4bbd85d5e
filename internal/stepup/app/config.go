package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer     string // Required: expected issuer claim on platform access tokens
	JWTSecret  string // Required: shared HS256 secret for verifying platform tokens
	TOTPIssuer string // Optional: issuer label shown in authenticator apps (default: ShiftWise)

	MasterKeyPath        string        // Optional: path to master encryption key file (for sealed TOTP secrets)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./stepup.db)
	PepperFile           string        // Optional: path to file containing pepper for code hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("STEPUP_ISSUER", "shiftwise-platform"),
		JWTSecret:            os.Getenv("STEPUP_JWT_SECRET"),
		TOTPIssuer:           getEnvOrDefault("STEPUP_TOTP_ISSUER", "ShiftWise"),
		MasterKeyPath:        os.Getenv("STEPUP_MASTER_KEY_PATH"), // Optional
		DatabaseFile:         getEnvOrDefault("STEPUP_DATABASE_FILE", "stepup.db"),
		PepperFile:           getEnvOrDefault("STEPUP_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept duration strings (e.g. "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Accept bare integers as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
