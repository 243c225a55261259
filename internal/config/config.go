package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Storage
	StorageBackend string
	FilePath       string
	SQLitePath     string
	StorageKey     string

	// Display
	Currency string
	PageSize int

	// Report cache
	ReportCacheSize int
	ReportCacheTTL  time.Duration

	LogLevel string
}

// Backends lists the accepted BUDGET_STORAGE_BACKEND values.
var Backends = []string{"memory", "file", "sqlite"}

func Load() *Config {
	cfg := &Config{
		StorageBackend: getEnv("BUDGET_STORAGE_BACKEND", "file"),
		FilePath:       getEnv("BUDGET_FILE_PATH", "./data/budget.json"),
		SQLitePath:     getEnv("BUDGET_SQLITE_PATH", "./data/budget.db"),
		StorageKey:     getEnv("BUDGET_STORAGE_KEY", "budgetAppData"),

		Currency: strings.ToUpper(getEnv("BUDGET_CURRENCY", "TWD")),
		PageSize: getEnvInt("BUDGET_PAGE_SIZE", 3),

		ReportCacheSize: getEnvInt("BUDGET_REPORT_CACHE_SIZE", 64),
		ReportCacheTTL:  getEnvDuration("BUDGET_REPORT_CACHE_TTL", 5*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(Backends, c.StorageBackend) {
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.StorageBackend, Backends))
	}

	switch c.StorageBackend {
	case "file":
		if c.FilePath == "" {
			errors = append(errors, "file path cannot be empty when using file backend")
		} else if filepath.Ext(c.FilePath) != ".json" {
			errors = append(errors, fmt.Sprintf("invalid file path '%s': must end in .json", c.FilePath))
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLitePath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		errors = append(errors, "storage key cannot be empty")
	}

	if len(c.Currency) != 3 {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be a 3-letter code", c.Currency))
	}

	if c.PageSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be at least 1", c.PageSize))
	} else if c.PageSize > 100 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be at most 100", c.PageSize))
	}

	if c.ReportCacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must not be negative", c.ReportCacheSize))
	}
	if c.ReportCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must not be negative", c.ReportCacheTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
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
