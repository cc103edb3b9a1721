package badger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LeninZapata/factory-saas-sub002/internal/models"
	"github.com/LeninZapata/factory-saas-sub002/internal/session"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage implements session.Store on BadgerDB. It keeps the same
// contract as the file store but trades the filename index for badgerhold
// indexes on UserID and ExpiresTimestamp.
type SessionStorage struct {
	db     *BadgerDB
	logger *slog.Logger

	// mu serializes snapshot read-modify-write, matching the file store.
	mu sync.Mutex
}

// NewSessionStorage creates a session store backed by BadgerDB.
func NewSessionStorage(db *BadgerDB, logger *slog.Logger) *SessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

// Create persists a new session record keyed by its full token.
func (s *SessionStorage) Create(user *models.UserProfile, token string, ttl time.Duration, meta session.Metadata) (*models.Session, error) {
	if user == nil {
		return nil, fmt.Errorf("session: create requires a user snapshot")
	}
	if token == "" {
		return nil, fmt.Errorf("session: create requires a token")
	}

	now := time.Now()
	expires := now.Add(ttl)

	record := &models.Session{
		UserID:           user.ID,
		User:             user,
		Token:            token,
		ExpiresAt:        expires.UTC().Format(time.RFC3339),
		ExpiresTimestamp: expires.Unix(),
		IPAddress:        meta.IPAddress,
		UserAgent:        meta.UserAgent,
		CreatedAt:        now.UTC().Format(time.RFC3339),
	}

	if err := s.db.Store().Upsert(token, record); err != nil {
		return nil, fmt.Errorf("session: store record: %w", err)
	}
	return record, nil
}

// FindByToken resolves a token to its session. Expired records are removed
// during the lookup and reported as session.ErrExpired.
func (s *SessionStorage) FindByToken(token string) (*models.Session, error) {
	var record models.Session
	err := s.db.Store().Get(token, &record)
	if err != nil {
		if err != badgerhold.ErrNotFound && s.logger != nil {
			s.logger.Warn("session lookup failed", "error", err)
		}
		return nil, session.ErrNotFound
	}
	if record.IsExpired() {
		if err := s.db.Store().Delete(token, models.Session{}); err != nil && err != badgerhold.ErrNotFound {
			if s.logger != nil {
				s.logger.Warn("failed to remove expired session", "error", err)
			}
		}
		return nil, session.ErrExpired
	}
	return &record, nil
}

// DeleteByToken removes the session for the token.
func (s *SessionStorage) DeleteByToken(token string) bool {
	err := s.db.Store().Delete(token, models.Session{})
	if err != nil {
		if err != badgerhold.ErrNotFound && s.logger != nil {
			s.logger.Warn("session delete failed", "error", err)
		}
		return false
	}
	return true
}

// DeleteAllForUser removes every session owned by the user.
func (s *SessionStorage) DeleteAllForUser(userID int64) int {
	var records []models.Session
	err := s.db.Store().Find(&records, badgerhold.Where("UserID").Eq(userID).Index("UserID"))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("session query failed", "user_id", userID, "error", err)
		}
		return 0
	}

	deleted := 0
	for _, record := range records {
		if err := s.db.Store().Delete(record.Token, models.Session{}); err != nil {
			if err == badgerhold.ErrNotFound {
				continue // removed concurrently
			}
			if s.logger != nil {
				s.logger.Warn("session delete failed", "user_id", userID, "error", err)
			}
			continue
		}
		deleted++
	}
	return deleted
}

// UpdateUserSnapshot merges partial fields into the embedded user snapshot.
func (s *SessionStorage) UpdateUserSnapshot(token string, fields map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var record models.Session
	if err := s.db.Store().Get(token, &record); err != nil {
		return false
	}

	merged, err := session.MergeSnapshot(record.User, fields)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("snapshot merge failed", "error", err)
		}
		return false
	}
	record.User = merged

	if err := s.db.Store().Upsert(token, &record); err != nil {
		if s.logger != nil {
			s.logger.Warn("snapshot rewrite failed", "error", err)
		}
		return false
	}
	return true
}

// Cleanup deletes at most maxSessions expired sessions using the expiry index.
func (s *SessionStorage) Cleanup(maxSessions int) int {
	if maxSessions <= 0 {
		maxSessions = session.DefaultCleanupLimit
	}

	now := time.Now().Unix()
	var records []models.Session
	query := badgerhold.Where("ExpiresTimestamp").Lt(now).Index("ExpiresTimestamp").Limit(maxSessions)
	if err := s.db.Store().Find(&records, query); err != nil {
		if s.logger != nil {
			s.logger.Warn("cleanup query failed", "error", err)
		}
		return 0
	}

	deleted := 0
	for _, record := range records {
		if err := s.db.Store().Delete(record.Token, models.Session{}); err != nil {
			continue
		}
		deleted++
	}
	return deleted
}

// Close implements session.Store. The shared connection is owned by the
// storage manager, so there is nothing to release here.
func (s *SessionStorage) Close() error {
	return nil
}
