package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Ingest IngestConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DataConfig struct {
	// Dir is the root directory for per-user transaction files.
	Dir string
}

type IngestConfig struct {
	// FuzzyMatching selects the fuzzy column matcher; when false the
	// normalizer falls back to plain substring matching.
	FuzzyMatching bool
	// FuzzyThreshold is the minimum similarity score (0-100) for a column
	// name to be accepted as a canonical column.
	FuzzyThreshold int
	// SizeWarnMB and RowWarnLimit are soft guardrails: crossing them adds a
	// warning to the decode result but never aborts processing.
	SizeWarnMB   int
	RowWarnLimit int
	// DuplicateScanCap bounds the all-pairs duplicate scan.
	DuplicateScanCap int
}

// Load reads configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Data: DataConfig{
			Dir: getEnv("DATA_DIR", "user_data"),
		},
		Ingest: IngestConfig{
			FuzzyMatching:    getEnvAsBool("FUZZY_MATCHING", true),
			FuzzyThreshold:   getEnvAsInt("FUZZY_THRESHOLD", 70),
			SizeWarnMB:       getEnvAsInt("SIZE_WARN_MB", 50),
			RowWarnLimit:     getEnvAsInt("ROW_WARN_LIMIT", 50000),
			DuplicateScanCap: getEnvAsInt("DUPLICATE_SCAN_CAP", 1000),
		},
	}

	if cfg.Data.Dir == "" {
		return nil, fmt.Errorf("DATA_DIR must not be empty")
	}

	return cfg, nil
}

// Addr returns the host:port address the server listens on
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
