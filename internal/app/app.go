package app

import (
	"log/slog"
	"os"
	"strings"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/config"
	"github.com/LeninZapata/factory-saas-sub002/internal/handlers"
	"github.com/LeninZapata/factory-saas-sub002/internal/interfaces"
	"github.com/LeninZapata/factory-saas-sub002/internal/seed"
	"github.com/LeninZapata/factory-saas-sub002/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config     *config.Config
	Logger     *common.Logger
	HTTPLogger *slog.Logger
	Storage    interfaces.StorageManager

	// HTTP handlers
	AuthHandler    *handlers.AuthHandler
	UsersHandler   *handlers.UsersHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config:     cfg,
		Logger:     logger,
		HTTPLogger: newHTTPLogger(cfg.Logging.Level),
	}

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE, do not use in production")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	manager, err := storage.NewStorageManager(a.HTTPLogger, logger, cfg)
	if err != nil {
		return nil, err
	}
	a.Storage = manager

	if err := seed.Admin(manager.Users(), logger); err != nil {
		manager.Close()
		return nil, err
	}

	a.initHandlers()

	logger.Info().
		Str("backend", cfg.Storage.Backend).
		Int("ttl_minutes", cfg.Auth.SessionTTLMinutes).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	users := a.Storage.Users()
	sessions := a.Storage.Sessions()

	a.AuthHandler = handlers.NewAuthHandler(a.Logger, users, sessions, a.Config.Auth.SessionTTL(), a.Config.Auth.TokenLength)
	a.UsersHandler = handlers.NewUsersHandler(a.Logger, users, sessions)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, users, a.Config.Storage.Backend)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}

// newHTTPLogger builds the slog logger used by the HTTP middleware chain.
func newHTTPLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug", "trace":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
