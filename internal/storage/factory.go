package storage

import (
	"fmt"
	"log/slog"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/config"
	"github.com/LeninZapata/factory-saas-sub002/internal/interfaces"
	"github.com/LeninZapata/factory-saas-sub002/internal/session"
	"github.com/LeninZapata/factory-saas-sub002/internal/storage/badger"
)

// Manager wires user storage (always Badger) with the configured session
// backend and implements interfaces.StorageManager.
type Manager struct {
	db       *badger.BadgerDB
	users    *badger.UserStorage
	sessions session.Store
}

// NewStorageManager creates a new storage manager based on config.
// storage.backend selects the session store: "file" keeps one JSON file per
// session, "badger" stores sessions next to the user accounts.
func NewStorageManager(logger *slog.Logger, sessionLogger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, err
	}

	var sessions session.Store
	switch cfg.Storage.Backend {
	case "file", "":
		sessions = session.NewFileStore(cfg.Storage.File.Path, sessionLogger)
	case "badger":
		sessions = badger.NewSessionStorage(db, logger)
	default:
		db.Close()
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}

	logger.Debug("storage manager initialized", "backend", cfg.Storage.Backend)

	return &Manager{
		db:       db,
		users:    badger.NewUserStorage(db, logger),
		sessions: sessions,
	}, nil
}

// Users returns the user storage interface.
func (m *Manager) Users() interfaces.UserStorage {
	return m.users
}

// Sessions returns the session store.
func (m *Manager) Sessions() session.Store {
	return m.sessions
}

// Close closes the session store and the database connection.
func (m *Manager) Close() error {
	if m.sessions != nil {
		m.sessions.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
