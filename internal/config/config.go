package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for finished game records
const (
	StorageMemory        = "memory"
	StorageSQLite        = "sqlite"
	StorageElasticsearch = "elasticsearch"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token   string
	AppID   string
	GuildID string

	// Storage configuration
	Storage          string
	DataDir          string
	SQLitePath       string
	ElasticsearchURL string

	// Game rules
	EnableDoubleDown bool
	EnableInsurance  bool
	EnableSplit      bool
	ActionTimeout    time.Duration

	// Display. When disabled the corresponding game message is rendered as
	// plain text instead of an embed.
	ResultEmbed bool
	NormalEmbed bool

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	dataDir := getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data"))

	timeout, err := getDurationWithDefault("ACTION_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Token:            os.Getenv("DISCORD_TOKEN"),
		AppID:            os.Getenv("APP_ID"),
		GuildID:          os.Getenv("GUILD_ID"),
		Storage:          getEnvWithDefault("STORAGE", StorageMemory),
		DataDir:          dataDir,
		SQLitePath:       getEnvWithDefault("SQLITE_PATH", filepath.Join(dataDir, "dealerbot.db")),
		ElasticsearchURL: getEnvWithDefault("ELASTICSEARCH_URL", "http://localhost:9200"),
		EnableDoubleDown: getBoolWithDefault("ENABLE_DOUBLEDOWN", true),
		EnableInsurance:  getBoolWithDefault("ENABLE_INSURANCE", true),
		EnableSplit:      getBoolWithDefault("ENABLE_SPLIT", true),
		ActionTimeout:    timeout,
		ResultEmbed:      getBoolWithDefault("RESULT_EMBED", true),
		NormalEmbed:      getBoolWithDefault("NORMAL_EMBED", true),
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Storage == StorageSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	switch c.Storage {
	case StorageMemory, StorageSQLite, StorageElasticsearch:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.ActionTimeout <= 0 {
		return fmt.Errorf("ACTION_TIMEOUT must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
