package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"repairdesk/internal/infrastructure/storage"
	"repairdesk/internal/infrastructure/storage/dynamo"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	Storage storage.Config

	// SeedDemo loads the demo data set on start when the stores are empty.
	SeedDemo bool

	RequireSufficientStock bool

	// JanitorInterval is how often expired idempotency keys are purged.
	JanitorInterval time.Duration
}

// Development reports whether the process runs in development mode.
func (c Config) Development() bool { return c.Env == "development" }

// LoadConfig reads the configuration from the environment.
func LoadConfig() Config {
	return Config{
		Port:     getEnv("APP_PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Storage: storage.Config{
			Backend:     getEnv("STORE_BACKEND", storage.BackendMemory),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			MaxConns:    int32(getEnvInt("DB_MAX_CONNS", 10)),
			Dynamo: dynamo.ClientConfig{
				Region:          getEnv("AWS_REGION", "us-east-1"),
				Endpoint:        os.Getenv("DYNAMODB_ENDPOINT"),
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			},
			DynamoTable:       getEnv("DYNAMODB_TABLE", "repairdesk"),
			CompressThreshold: getEnvInt("DYNAMODB_COMPRESS_THRESHOLD", 0),
			IdempotencyTTL:    getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		SeedDemo:               getEnvBool("SEED_DEMO", false),
		RequireSufficientStock: getEnvBool("LEDGER_REQUIRE_STOCK", false),
		JanitorInterval:        getEnvDuration("IDEMPOTENCY_PURGE_INTERVAL", 10*time.Minute),
	}
}

// Validate reports settings the selected backend cannot start without.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendMemory:
	case storage.BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", c.Storage.Backend)
		}
	case storage.BackendDynamo:
		if c.Storage.DynamoTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the %s backend", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
