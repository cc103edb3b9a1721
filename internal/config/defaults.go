package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		Auth: AuthConfig{
			SessionTTLMinutes: 1440,
			TokenLength:       32,
		},
		Storage: StorageConfig{
			Backend: "file",
			File: FileConfig{
				Path: "./data/sessions",
			},
			Badger: BadgerConfig{
				Path: "./data/factory",
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			Limit:         10,
			WindowSeconds: 60,
			Path:          "./data/ratelimit.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
