package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Sync     SyncConfig
	Backup   BackupConfig
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

// SyncConfig holds remote document-store sync configuration.
// SecretKey is the fernet key used to encrypt the stored API credential;
// it must be a 32-byte url-safe base64 string.
type SyncConfig struct {
	BaseURL   string
	SecretKey string
}

// BackupConfig holds the optional scheduled cloud backup configuration.
// An empty schedule disables the scheduler.
type BackupConfig struct {
	Schedule string // cron expression, e.g. "0 3 * * *"
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fund_records.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Sync: SyncConfig{
			BaseURL:   getEnv("SYNC_BASE_URL", "https://api.jsonbin.io/v3"),
			SecretKey: os.Getenv("SYNC_SECRET_KEY"),
		},
		Backup: BackupConfig{
			Schedule: os.Getenv("BACKUP_SCHEDULE"),
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

// splitEnv gets a comma-separated environment variable or returns a default list
func splitEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
