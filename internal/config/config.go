// Package config provides application configuration loaded from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Avatar   AvatarConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds connection settings. Driver selects between
// the embedded sqlite file (default, dev) and postgres.
type DatabaseConfig struct {
	Driver     string // "sqlite" or "postgres"
	SQLitePath string

	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AvatarConfig holds avatar upload settings.
type AvatarConfig struct {
	// Dir is where uploaded avatar images are written.
	Dir string
	// DefaultsDir holds the faction fallback images.
	DefaultsDir string
	// MaxBytes caps the accepted upload size.
	MaxBytes int64
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "warboard.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "warboard"),
			Password:   getEnv("DB_PASSWORD", "warboard123"),
			DBName:     getEnv("DB_NAME", "warboard"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
		},
		Avatar: AvatarConfig{
			Dir:         getEnv("AVATAR_DIR", "static/avatars/uploads"),
			DefaultsDir: getEnv("AVATAR_DEFAULTS_DIR", "static/avatars"),
			MaxBytes:    int64(getEnvInt("AVATAR_MAX_BYTES", 1<<20)),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", true),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a
// default. Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
