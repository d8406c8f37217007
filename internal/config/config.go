package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend choices for persistence and leaderboard ranking.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	LeaderboardMemory = "memory"
	LeaderboardRedis  = "redis"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string

	StoreBackend       string
	LeaderboardBackend string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIKey string // API key for authentication
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		StoreBackend:       getEnv("STORE_BACKEND", StoreMemory),
		LeaderboardBackend: getEnv("LEADERBOARD_BACKEND", LeaderboardMemory),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBName:             getEnv("DB_NAME", "auraengine"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		APIKey:             getEnv("API_KEY", ""),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	redisDBStr := getEnv("REDIS_DB", "0")
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}
	cfg.RedisDB = redisDB

	switch cfg.StoreBackend {
	case StoreMemory, StorePostgres:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND value: %q (want %s or %s)", cfg.StoreBackend, StoreMemory, StorePostgres)
	}

	switch cfg.LeaderboardBackend {
	case LeaderboardMemory, LeaderboardRedis:
	default:
		return nil, fmt.Errorf("invalid LEADERBOARD_BACKEND value: %q (want %s or %s)", cfg.LeaderboardBackend, LeaderboardMemory, LeaderboardRedis)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
