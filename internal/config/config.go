package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Auth        AuthConfig      `toml:"auth"`
	Storage     StorageConfig   `toml:"storage"`
	RateLimit   RateLimitConfig `toml:"ratelimit"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// AuthConfig contains session issuance settings.
type AuthConfig struct {
	SessionTTLMinutes int `toml:"session_ttl_minutes"`
	TokenLength       int `toml:"token_length"`
}

// SessionTTL returns the configured session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	// Backend selects the session store: "file" (default) or "badger".
	Backend string       `toml:"backend"`
	File    FileConfig   `toml:"file"`
	Badger  BadgerConfig `toml:"badger"`
}

// FileConfig contains file-session-store settings.
type FileConfig struct {
	Path string `toml:"path"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// RateLimitConfig contains login throttle settings.
type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	Limit         int    `toml:"limit"`
	WindowSeconds int    `toml:"window_seconds"`
	Path          string `toml:"path"`
}

// Window returns the throttle window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode returns true when the environment is set to dev.
func (c *Config) IsDevMode() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "dev"
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies FACTORY_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FACTORY_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("FACTORY_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FACTORY_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if backend := os.Getenv("FACTORY_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if sessionDir := os.Getenv("FACTORY_SESSION_DIR"); sessionDir != "" {
		config.Storage.File.Path = sessionDir
	}
	if badgerPath := os.Getenv("FACTORY_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if ttl := os.Getenv("FACTORY_SESSION_TTL_MINUTES"); ttl != "" {
		if m, err := strconv.Atoi(ttl); err == nil {
			config.Auth.SessionTTLMinutes = m
		}
	}
	if level := os.Getenv("FACTORY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks mandatory configuration and returns human-readable issues.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	switch c.Storage.Backend {
	case "file":
		if c.Storage.File.Path == "" {
			issues = append(issues, "storage.file.path is required when storage.backend is \"file\"")
		}
	case "badger":
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be \"file\" or \"badger\" (got %q)", c.Storage.Backend))
	}
	if c.Storage.Badger.Path == "" {
		issues = append(issues, "storage.badger.path is required (user accounts are stored in badger)")
	}
	if c.Auth.SessionTTLMinutes <= 0 {
		issues = append(issues, fmt.Sprintf("auth.session_ttl_minutes must be positive (got %d)", c.Auth.SessionTTLMinutes))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Limit <= 0 {
			issues = append(issues, fmt.Sprintf("ratelimit.limit must be positive when enabled (got %d)", c.RateLimit.Limit))
		}
		if c.RateLimit.WindowSeconds <= 0 {
			issues = append(issues, fmt.Sprintf("ratelimit.window_seconds must be positive when enabled (got %d)", c.RateLimit.WindowSeconds))
		}
	}

	return issues
}
