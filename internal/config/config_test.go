package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 4310 {
		t.Errorf("expected default port 4310, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("expected default backend file, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.File.Path != "./data/sessions" {
		t.Errorf("expected default session dir ./data/sessions, got %s", cfg.Storage.File.Path)
	}
	if cfg.Auth.SessionTTLMinutes != 1440 {
		t.Errorf("expected default session TTL 1440, got %d", cfg.Auth.SessionTTLMinutes)
	}
	if cfg.Auth.SessionTTL() != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %v", cfg.Auth.SessionTTL())
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Limit != 10 || cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 4310 {
		t.Errorf("expected default port 4310, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
environment = "dev"

[server]
port = 9090
host = "0.0.0.0"

[auth]
session_ttl_minutes = 30
token_length = 48

[storage]
backend = "badger"

[storage.badger]
path = "/tmp/test-db"

[ratelimit]
enabled = false

[logging]
level = "debug"
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if !cfg.IsDevMode() {
		t.Error("expected dev mode")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Auth.SessionTTL() != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.Auth.SessionTTL())
	}
	if cfg.Auth.TokenLength != 48 {
		t.Errorf("expected token length 48, got %d", cfg.Auth.TokenLength)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("expected backend badger, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Badger.Path != "/tmp/test-db" {
		t.Errorf("expected badger path /tmp/test-db, got %s", cfg.Storage.Badger.Path)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limit disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "partial.toml")

	// Only override port; everything else should stay default
	content := `
[server]
port = 3000
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	// Host should remain the default
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "base.toml")
	baseContent := `
[server]
port = 3000
host = "base-host"
`
	if err := os.WriteFile(base, []byte(baseContent), 0644); err != nil {
		t.Fatal(err)
	}

	override := filepath.Join(dir, "override.toml")
	overrideContent := `
[server]
port = 4000
`
	if err := os.WriteFile(override, []byte(overrideContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	// Port should be overridden by the second file
	if cfg.Server.Port != 4000 {
		t.Errorf("expected port 4000 from override, got %d", cfg.Server.Port)
	}
	// Host should come from the base file
	if cfg.Server.Host != "base-host" {
		t.Errorf("expected host base-host from base file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/path.toml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "invalid.toml")

	if err := os.WriteFile(tomlPath, []byte("this is not valid {{toml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromFiles(tomlPath)
	if err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("FACTORY_ENVIRONMENT", "dev")
	t.Setenv("FACTORY_SERVER_PORT", "9999")
	t.Setenv("FACTORY_SERVER_HOST", "env-host")
	t.Setenv("FACTORY_STORAGE_BACKEND", "badger")
	t.Setenv("FACTORY_SESSION_DIR", "/env/sessions")
	t.Setenv("FACTORY_BADGER_PATH", "/env/path")
	t.Setenv("FACTORY_SESSION_TTL_MINUTES", "15")
	t.Setenv("FACTORY_LOG_LEVEL", "error")

	applyEnvOverrides(cfg)

	if cfg.Environment != "dev" {
		t.Errorf("expected env environment dev, got %s", cfg.Environment)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected env port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "env-host" {
		t.Errorf("expected env host env-host, got %s", cfg.Server.Host)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("expected env backend badger, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.File.Path != "/env/sessions" {
		t.Errorf("expected env session dir /env/sessions, got %s", cfg.Storage.File.Path)
	}
	if cfg.Storage.Badger.Path != "/env/path" {
		t.Errorf("expected env badger path /env/path, got %s", cfg.Storage.Badger.Path)
	}
	if cfg.Auth.SessionTTLMinutes != 15 {
		t.Errorf("expected env TTL 15, got %d", cfg.Auth.SessionTTLMinutes)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env log level error, got %s", cfg.Logging.Level)
	}
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	cfg := NewDefaultConfig()

	t.Setenv("FACTORY_SERVER_PORT", "not-a-number")

	applyEnvOverrides(cfg)

	// Port should remain default when env var is not a valid integer
	if cfg.Server.Port != 4310 {
		t.Errorf("expected default port 4310 for invalid env, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 7777, "flag-host")

	if cfg.Server.Port != 7777 {
		t.Errorf("expected flag port 7777, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "flag-host" {
		t.Errorf("expected flag host flag-host, got %s", cfg.Server.Host)
	}
}

func TestApplyFlagOverrides_ZeroPortNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, "")

	// No override when port is 0 and host is empty
	if cfg.Server.Port != 4310 {
		t.Errorf("expected default port 4310, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
}

func TestEnvOverridesFileConfig(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
[server]
port = 3000
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FACTORY_SERVER_PORT", "5555")

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	// Env should override file value
	if cfg.Server.Port != 5555 {
		t.Errorf("expected env override port 5555, got %d", cfg.Server.Port)
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("default config should validate cleanly, got %v", issues)
	}
}

func TestValidate_Issues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Port = 0
	cfg.Storage.Backend = "redis"
	cfg.Storage.Badger.Path = ""
	cfg.Auth.SessionTTLMinutes = -5
	cfg.RateLimit.Limit = 0

	issues := cfg.Validate()
	if len(issues) != 5 {
		t.Errorf("expected 5 issues, got %d: %v", len(issues), issues)
	}
}

func TestValidate_FileBackendRequiresPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.File.Path = ""

	issues := cfg.Validate()
	if len(issues) != 1 {
		t.Errorf("expected 1 issue for missing session dir, got %v", issues)
	}
}
