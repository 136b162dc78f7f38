package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/scoretracker/internal/storage/database"
	redisstorage "github.com/mcoot/scoretracker/internal/storage/redis"
)

// Config holds all configuration for the server
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host string
	Port int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level slog.Level
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type string // memory, redis or database
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL          string
	Namespace    string
	PoolSize     int
	MinIdleConns int
	TTL          time.Duration
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver       string
	DSN          string
	Namespace    string
	MaxOpenConns int
	MaxIdleConns int
}

// Load reads configuration from a .env file if one exists, then from the
// process environment
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	// godotenv never overrides variables that are already set
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	redisDefaults := redisstorage.DefaultConfig()
	dbDefaults := database.DefaultConfig()

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(getEnv("REDIS_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("HOST", ""),
			Port: getEnvAsInt("PORT", 8080),
		},
		Log: LogConfig{
			Level: level,
		},
		Storage: StorageConfig{
			Type: strings.ToLower(getEnv("STORAGE_TYPE", "memory")),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", redisDefaults.URL),
			Namespace:    getEnv("REDIS_NAMESPACE", redisDefaults.Namespace),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", redisDefaults.PoolSize),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", redisDefaults.MinIdleConns),
			TTL:          ttl,
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", dbDefaults.Driver),
			DSN:          getEnv("DATABASE_URL", dbDefaults.DSN),
			Namespace:    getEnv("DB_NAMESPACE", dbDefaults.Namespace),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", dbDefaults.MaxOpenConns),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", dbDefaults.MaxIdleConns),
		},
	}

	return cfg, nil
}

// RedisStorageConfig returns the settings for the redis store
func (c *Config) RedisStorageConfig() redisstorage.Config {
	return redisstorage.Config{
		URL:          c.Redis.URL,
		PoolSize:     c.Redis.PoolSize,
		MinIdleConns: c.Redis.MinIdleConns,
		Namespace:    c.Redis.Namespace,
		TTL:          c.Redis.TTL,
	}
}

// DatabaseStorageConfig returns the settings for the database store
func (c *Config) DatabaseStorageConfig() database.Config {
	return database.Config{
		Driver:       c.Database.Driver,
		DSN:          c.Database.DSN,
		Namespace:    c.Database.Namespace,
		MaxOpenConns: c.Database.MaxOpenConns,
		MaxIdleConns: c.Database.MaxIdleConns,
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
