package badger

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/LeninZapata/factory-saas-sub002/internal/config"
	"github.com/timshannon/badgerhold/v4"
)

func init() {
	// badgerhold encodes values with gob. User and session records carry
	// free-form permission configs (map[string]any with []any values),
	// which gob rejects unless the container types are registered.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// gcInterval is how often the value-log GC pass runs. Session churn from
// login, logout, and cleanup leaves dead entries the GC reclaims.
const gcInterval = 10 * time.Minute

// BadgerDB manages the Badger database connection.
type BadgerDB struct {
	store  *badgerhold.Store
	logger *slog.Logger
	config *config.BadgerConfig
	stopGC chan struct{}
}

// NewBadgerDB creates a new Badger database connection.
func NewBadgerDB(logger *slog.Logger, cfg *config.BadgerConfig) (*BadgerDB, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	logger.Debug("opening Badger database", "path", cfg.Path)

	options := badgerhold.DefaultOptions
	options.Dir = cfg.Path
	options.ValueDir = cfg.Path
	options.Logger = nil // Disable default badger logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug("Badger database initialized", "path", cfg.Path)

	db := &BadgerDB{
		store:  store,
		logger: logger,
		config: cfg,
		stopGC: make(chan struct{}),
	}
	go db.runGC()

	return db, nil
}

// runGC periodically reclaims value-log space until Close.
func (b *BadgerDB) runGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to reclaim.
			if err := b.store.Badger().RunValueLogGC(0.5); err == nil {
				b.logger.Debug("badger value log GC reclaimed space")
			}
		case <-b.stopGC:
			return
		}
	}
}

// Store returns the underlying badgerhold store.
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// Close closes the database connection.
func (b *BadgerDB) Close() error {
	close(b.stopGC)
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
