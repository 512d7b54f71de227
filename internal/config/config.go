package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	Version     string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	RedisAddr   string // Optional; empty disables the read-through cache
	APIKey      string // API key for authentication

	// Operator is the ledger account credited by residual sweeps and
	// debited when seeding prize pools.
	Operator string

	// ClaimWindow is how long after settlement winners can claim.
	ClaimWindow time.Duration

	DeadLetterPath string

	// DevMode runs with in-memory storage and ledger instead of Postgres.
	DevMode bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:      getEnv(EnvLogFormat, DefaultLogFormat),
		Environment:    getEnv(EnvEnvironment, DefaultEnvironment),
		Version:        getEnv(EnvVersion, DefaultVersion),
		DBUser:         getEnv(EnvDBUser, DefaultDBUser),
		DBPassword:     getEnv(EnvDBPassword, DefaultDBPassword),
		DBHost:         getEnv(EnvDBHost, DefaultDBHost),
		DBPort:         getEnv(EnvDBPort, DefaultDBPort),
		DBName:         getEnv(EnvDBName, DefaultDBName),
		RedisAddr:      getEnv(EnvRedisAddr, ""),
		APIKey:         getEnv(EnvAPIKey, ""),
		Operator:       getEnv(EnvOperator, ""),
		DeadLetterPath: getEnv(EnvDeadLetterPath, DefaultDeadLetterPath),
	}

	portStr := getEnv(EnvPort, DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvPort, err)
	}
	cfg.Port = port

	windowStr := getEnv(EnvClaimWindow, DefaultClaimWindow)
	window, err := time.ParseDuration(windowStr)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", EnvClaimWindow, err)
	}
	cfg.ClaimWindow = window

	cfg.DevMode = getEnv(EnvDevMode, "false") == "true"

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s environment variable must be set for security", EnvAPIKey)
	}

	if cfg.Operator == "" {
		return nil, fmt.Errorf("%s environment variable must be set", EnvOperator)
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
