package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
// Values come from environment variables with sensible defaults.
//
// Environment Variables:
// Backend API:
// - CLIPSTUDIO_API_URL: Base URL of the processing backend (default: http://localhost:5001/api)
// - CLIPSTUDIO_API_TIMEOUT: Request timeout in seconds (default: 60)
// - CLIPSTUDIO_TOKEN_PATH: Path of the persisted auth token (default: ~/.clipstudio/token)
//
// Subtitle defaults:
// - CLIPSTUDIO_LANGUAGE: Default subtitle language code (default: en)
// - CLIPSTUDIO_STYLE: Default subtitle style (default: clean)
//
// Watch mode:
// - CLIPSTUDIO_WATCH_DIRS: Colon-separated local directories to watch for new videos
// - CLIPSTUDIO_CRON_EXPR: Cron schedule for the watch scan (default: */5 * * * *)
//
// Jobs:
// - CLIPSTUDIO_JOB_WORKERS: Background job workers (default: 2)
// - CLIPSTUDIO_JOB_DB: Path of the SQLite job history database
//   (default: ~/.clipstudio/jobs.db, empty disables persistence)

type Config struct {
	API      APIConfig      `json:"api"`
	Subtitle SubtitleConfig `json:"subtitle"`
	Watch    WatchConfig    `json:"watch"`
	Jobs     JobsConfig     `json:"jobs"`
}

// APIConfig holds the configuration for the backend HTTP client.
type APIConfig struct {
	BaseURL   string `json:"base_url"`
	Timeout   int    `json:"timeout"`
	TokenPath string `json:"token_path"`
}

// SubtitleConfig holds default language and style applied to new segments.
type SubtitleConfig struct {
	Language string `json:"language"`
	Style    string `json:"style"`
}

// WatchConfig holds the configuration for the directory watch service.
type WatchConfig struct {
	Dirs     []string `json:"dirs"`
	CronExpr string   `json:"cron_expr"`
}

// JobsConfig holds the configuration for the background job queue.
type JobsConfig struct {
	Workers int    `json:"workers"`
	DBPath  string `json:"db_path"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		API: APIConfig{
			BaseURL:   getEnvString("CLIPSTUDIO_API_URL", "http://localhost:5001/api"),
			Timeout:   getEnvInt("CLIPSTUDIO_API_TIMEOUT", 60),
			TokenPath: getEnvString("CLIPSTUDIO_TOKEN_PATH", defaultHomePath("token")),
		},
		Subtitle: SubtitleConfig{
			Language: getEnvString("CLIPSTUDIO_LANGUAGE", "en"),
			Style:    getEnvString("CLIPSTUDIO_STYLE", "clean"),
		},
		Watch: WatchConfig{
			Dirs:     splitPaths(getEnvString("CLIPSTUDIO_WATCH_DIRS", "")),
			CronExpr: getEnvString("CLIPSTUDIO_CRON_EXPR", "*/5 * * * *"),
		},
		Jobs: JobsConfig{
			Workers: getEnvInt("CLIPSTUDIO_JOB_WORKERS", 2),
			DBPath:  getEnvString("CLIPSTUDIO_JOB_DB", defaultHomePath("jobs.db")),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("CLIPSTUDIO_API_URL is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("CLIPSTUDIO_API_TIMEOUT must be positive")
	}
	return nil
}

func defaultHomePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return home + "/.clipstudio/" + name
}

func splitPaths(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ":")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
