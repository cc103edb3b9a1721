package session

import (
	"errors"
	"time"

	"github.com/LeninZapata/factory-saas-sub002/internal/models"
)

// TokenPrefixLength is the number of token characters encoded into the
// storage key. Prefixes are a lookup filter only; collisions are legal and
// resolved by full-token comparison against the stored record.
const TokenPrefixLength = 16

// DefaultCleanupLimit bounds how many expired sessions one sweep may remove.
const DefaultCleanupLimit = 10

var (
	// ErrNotFound indicates no session matched the token (including
	// corrupt or unreadable records, which are treated as absent).
	ErrNotFound = errors.New("session not found")

	// ErrExpired indicates a session matched the token but is past its
	// expiry. The backing record is removed during the lookup.
	ErrExpired = errors.New("session expired")
)

// Metadata holds write-once audit fields captured at login.
type Metadata struct {
	IPAddress string
	UserAgent string
}

// Store persists sessions keyed by token.
type Store interface {
	// Create persists a new session for the user with the given ttl and
	// returns the stored record.
	Create(user *models.UserProfile, token string, ttl time.Duration, meta Metadata) (*models.Session, error)

	// FindByToken resolves a token to its session. Returns ErrNotFound if
	// nothing matches, or ErrExpired after removing an expired record.
	FindByToken(token string) (*models.Session, error)

	// DeleteByToken removes the session for the token. Reports whether a
	// deletion occurred.
	DeleteByToken(token string) bool

	// DeleteAllForUser removes every session owned by the user and
	// returns the count deleted. Tolerates concurrent removal.
	DeleteAllForUser(userID int64) int

	// UpdateUserSnapshot merges partial fields into the embedded user
	// snapshot of the session. Reports whether a session was found.
	UpdateUserSnapshot(token string, fields map[string]any) bool

	// Cleanup deletes at most maxSessions expired sessions and returns
	// the count removed.
	Cleanup(maxSessions int) int

	// Close releases any resources held by the store.
	Close() error
}

// TokenPrefix returns the storage-key prefix for a token.
func TokenPrefix(token string) string {
	if len(token) < TokenPrefixLength {
		return token
	}
	return token[:TokenPrefixLength]
}
