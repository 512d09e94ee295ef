// Package config contains everything related to configuration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/profdiff-tui/internal/compare"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath        string
	ProfileDir          string
	BaselinePath        string
	FPSFunction         string
	LogPath             string
	DivisionPolicy      compare.DivisionPolicy
	LogLevel            slog.Level
	RegressionThreshold float64
	WatchDebounce       time.Duration
	AutoCompare         bool
	Notifications       bool
}

// Default values
const (
	defaultProfileDir          = "profiles"
	defaultDivisionPolicy      = "skip"
	defaultRegressionThreshold = 5.0
	defaultWatchDebounce       = 250 * time.Millisecond
	defaultLogLevel            = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	policy, err := compare.ParseDivisionPolicy(getEnvString("DIVISION_POLICY", defaultDivisionPolicy))
	if err != nil {
		return nil, fmt.Errorf("invalid DIVISION_POLICY: %w", err)
	}

	level, err := parseLogLevel(getEnvString("LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabasePath:        getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ProfileDir:          getEnvString("PROFILE_DIR", defaultProfileDir),
		BaselinePath:        getEnvString("BASELINE_PATH", ""),
		FPSFunction:         getEnvString("FPS_FUNCTION", compare.DefaultFPSFunction),
		LogPath:             getEnvString("LOG_PATH", getDefaultLogPath()),
		DivisionPolicy:      policy,
		LogLevel:            level,
		RegressionThreshold: getEnvFloat("REGRESSION_THRESHOLD", defaultRegressionThreshold),
		WatchDebounce:       getEnvDuration("WATCH_DEBOUNCE", defaultWatchDebounce),
		AutoCompare:         getEnvBool("AUTO_COMPARE", true),
		Notifications:       getEnvBool("NOTIFICATIONS", true),
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if cfg.LogPath != "" {
		if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "profdiff", ".env"),
			filepath.Join(home, ".profdiff", ".env"),
		)
	}

	// Parent directories (useful when run from a build directory)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".config", "profdiff", "history.db")
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "profdiff.log"
	}
	return filepath.Join(home, ".config", "profdiff", "profdiff.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "250ms", "1s". Bare integers are milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
