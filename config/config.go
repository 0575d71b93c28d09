// Package config loads service configuration from environment variables
// with defaults and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Driver names accepted by DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Token codec names accepted by TOKEN_CODEC.
const (
	CodecJOSE   = "jose"
	CodecSealed = "sealed"
)

// minSecretLen is the minimum byte length for TOKEN_SECRET. 32 bytes covers
// both HS256 signing and the XChaCha20-Poly1305 key size.
const minSecretLen = 32

type Config struct {
	// Server
	Addr      string
	LogLevel  string
	LogFormat string // text or json

	// Database
	DatabaseDriver  string // sqlite or postgres
	DatabaseURL     string // postgres DSN, required for the postgres driver
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Schema initialization
	SchemaRetryAttempts int
	SchemaRetryDelay    time.Duration

	// Tokens
	TokenSecret string
	TokenCodec  string // jose or sealed
	TokenKeyID  string // key identifier for the sealed codec's rotation map
	TokenTTL    time.Duration

	// The single configured credential pair. AuthPasswordHash (bcrypt) takes
	// precedence over AuthPassword when both are set.
	AuthUsername     string
	AuthPassword     string
	AuthPasswordHash string
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:      getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseDriver:  getEnv("DATABASE_DRIVER", DriverSQLite),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnv("SQLITE_PATH", "toymcp.db"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		SchemaRetryAttempts: getEnvInt("SCHEMA_RETRY_ATTEMPTS", 5),
		SchemaRetryDelay:    getEnvDuration("SCHEMA_RETRY_DELAY", 2*time.Second),

		TokenSecret: os.Getenv("TOKEN_SECRET"),
		TokenCodec:  getEnv("TOKEN_CODEC", CodecJOSE),
		TokenKeyID:  getEnv("TOKEN_KEY_ID", "1"),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),

		AuthUsername:     getEnv("AUTH_USERNAME", "admin"),
		AuthPassword:     os.Getenv("AUTH_PASSWORD"),
		AuthPasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
	}

	// Validate required fields
	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DatabaseDriver)
	}

	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}
	if len(cfg.TokenSecret) < minSecretLen {
		return nil, fmt.Errorf("TOKEN_SECRET must be at least %d bytes, got %d", minSecretLen, len(cfg.TokenSecret))
	}
	if cfg.TokenCodec != CodecJOSE && cfg.TokenCodec != CodecSealed {
		return nil, fmt.Errorf("TOKEN_CODEC must be %q or %q, got %q", CodecJOSE, CodecSealed, cfg.TokenCodec)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	if cfg.AuthUsername == "" {
		return nil, fmt.Errorf("AUTH_USERNAME must not be empty")
	}
	if cfg.AuthPassword == "" && cfg.AuthPasswordHash == "" {
		return nil, fmt.Errorf("one of AUTH_PASSWORD or AUTH_PASSWORD_HASH is required")
	}

	if cfg.SchemaRetryAttempts < 1 {
		return nil, fmt.Errorf("SCHEMA_RETRY_ATTEMPTS must be at least 1, got %d", cfg.SchemaRetryAttempts)
	}
	if cfg.SchemaRetryDelay < 0 {
		return nil, fmt.Errorf("SCHEMA_RETRY_DELAY must not be negative, got %s", cfg.SchemaRetryDelay)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
