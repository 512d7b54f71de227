package config

// Environment variable names
const (
	EnvPort           = "PORT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvEnvironment    = "ENVIRONMENT"
	EnvVersion        = "VERSION"
	EnvDBUser         = "DB_USER"
	EnvDBPassword     = "DB_PASSWORD"
	EnvDBHost         = "DB_HOST"
	EnvDBPort         = "DB_PORT"
	EnvDBName         = "DB_NAME"
	EnvRedisAddr      = "REDIS_ADDR"
	EnvAPIKey         = "API_KEY"
	EnvOperator       = "OPERATOR_ACCOUNT"
	EnvClaimWindow    = "CLAIM_WINDOW"
	EnvDeadLetterPath = "DEAD_LETTER_PATH"
	EnvDevMode        = "DEV_MODE"
)

// Default values
const (
	DefaultPort           = "8080"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultEnvironment    = "dev"
	DefaultVersion        = "dev"
	DefaultDBUser         = "postgres"
	DefaultDBPassword     = "postgres"
	DefaultDBHost         = "localhost"
	DefaultDBPort         = "5432"
	DefaultDBName         = "sportsbook"
	DefaultClaimWindow    = "72h"
	DefaultDeadLetterPath = "dead_letter_events.jsonl"
)
