package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Queue
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Worker
	WorkerConcurrency int
	RetryAttempts     int
	RetryBaseDelay    time.Duration

	// External reconciliation
	IncludeExternalReconciliation bool
	ExternalProviderName          string
	ExternalProviderURL           string
	ExternalProviderAPIKey        string
	ExternalCallTimeout           time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("WORKER_CONCURRENCY", 8)
	viper.SetDefault("RETRY_ATTEMPTS", 3)
	viper.SetDefault("RETRY_BASE_DELAY", "1s")
	viper.SetDefault("INCLUDE_EXTERNAL_RECONCILIATION", false)
	viper.SetDefault("EXTERNAL_PROVIDER_NAME", "bankfeed")
	viper.SetDefault("EXTERNAL_PROVIDER_URL", "")
	viper.SetDefault("EXTERNAL_PROVIDER_API_KEY", "")
	viper.SetDefault("EXTERNAL_CALL_TIMEOUT", "5s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.WorkerConcurrency = viper.GetInt("WORKER_CONCURRENCY")
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 8
		log.Printf("Warning: Invalid WORKER_CONCURRENCY. Defaulting to %d.\n", cfg.WorkerConcurrency)
	}

	cfg.RetryAttempts = viper.GetInt("RETRY_ATTEMPTS")
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
		log.Printf("Warning: Invalid RETRY_ATTEMPTS. Defaulting to %d.\n", cfg.RetryAttempts)
	}

	retryBaseDelayStr := viper.GetString("RETRY_BASE_DELAY")
	retryBaseDelay, err := time.ParseDuration(retryBaseDelayStr)
	if err != nil || retryBaseDelay <= 0 {
		retryBaseDelay = time.Second
		log.Printf("Warning: Invalid RETRY_BASE_DELAY ('%s'). Defaulting to %s.\n", retryBaseDelayStr, retryBaseDelay)
	}
	cfg.RetryBaseDelay = retryBaseDelay

	cfg.IncludeExternalReconciliation = viper.GetBool("INCLUDE_EXTERNAL_RECONCILIATION")
	cfg.ExternalProviderName = viper.GetString("EXTERNAL_PROVIDER_NAME")
	cfg.ExternalProviderURL = viper.GetString("EXTERNAL_PROVIDER_URL")
	cfg.ExternalProviderAPIKey = viper.GetString("EXTERNAL_PROVIDER_API_KEY")
	if cfg.IncludeExternalReconciliation && cfg.ExternalProviderURL == "" {
		log.Println("Warning: INCLUDE_EXTERNAL_RECONCILIATION is set but EXTERNAL_PROVIDER_URL is empty. External checks will fail.")
	}

	externalTimeoutStr := viper.GetString("EXTERNAL_CALL_TIMEOUT")
	externalTimeout, err := time.ParseDuration(externalTimeoutStr)
	if err != nil || externalTimeout <= 0 {
		externalTimeout = 5 * time.Second
		log.Printf("Warning: Invalid EXTERNAL_CALL_TIMEOUT ('%s'). Defaulting to %s.\n", externalTimeoutStr, externalTimeout)
	}
	cfg.ExternalCallTimeout = externalTimeout

	return cfg, nil
}
