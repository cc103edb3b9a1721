package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/models"
)

// FileStore persists one JSON file per active session.
//
// Filenames encode (expiry timestamp, user id, token prefix) as
// {expires_timestamp}_{user_id}_{prefix16}.json. The encoded triple is a
// lookup index only; the token field inside the file is authoritative.
type FileStore struct {
	dir    string
	logger *common.Logger

	// mu serializes read-modify-write of session files. Single-file
	// creates and deletes stay lock-free; deletes are idempotent.
	mu sync.Mutex
}

// NewFileStore creates a file-backed session store rooted at dir.
// The directory is created on first write, not here.
func NewFileStore(dir string, logger *common.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// sessionKey builds the storage filename for a session.
func sessionKey(expiresTimestamp int64, userID int64, token string) string {
	return fmt.Sprintf("%d_%d_%s.json", expiresTimestamp, userID, TokenPrefix(token))
}

// parseSessionKey decodes a storage filename back into its triple.
// Returns ok=false for any name that does not match the expected pattern.
func parseSessionKey(name string) (expiresTimestamp int64, userID int64, prefix string, ok bool) {
	base, found := strings.CutSuffix(name, ".json")
	if !found {
		return 0, 0, "", false
	}
	parts := strings.SplitN(base, "_", 3)
	if len(parts) != 3 || parts[2] == "" || strings.Contains(parts[2], "_") {
		return 0, 0, "", false
	}
	exp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, "", false
	}
	uid, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, "", false
	}
	return exp, uid, parts[2], true
}

// Create writes a new session record as a single atomic file.
func (s *FileStore) Create(user *models.UserProfile, token string, ttl time.Duration, meta Metadata) (*models.Session, error) {
	if user == nil {
		return nil, fmt.Errorf("session: create requires a user snapshot")
	}
	if token == "" {
		return nil, fmt.Errorf("session: create requires a token")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create directory %s: %w", s.dir, err)
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

	path := filepath.Join(s.dir, sessionKey(record.ExpiresTimestamp, user.ID, token))
	if err := s.writeRecord(path, record); err != nil {
		return nil, err
	}

	return record, nil
}

// writeRecord marshals the record and moves it into place atomically.
func (s *FileStore) writeRecord(path string, record *models.Session) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("session: marshal record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("session: write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("session: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("session: commit record: %w", err)
	}
	return nil
}

// findFile returns the path and record of the session matching the full
// token, or ErrNotFound. Candidate files are narrowed by the filename
// prefix; several sessions may share one prefix, so the token inside each
// candidate is compared exactly. Unreadable or corrupt candidates read as
// absent.
func (s *FileStore) findFile(token string) (string, *models.Session, error) {
	prefix := TokenPrefix(token)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", nil, ErrNotFound
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		_, _, keyPrefix, ok := parseSessionKey(name)
		if !ok || keyPrefix != prefix {
			continue
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var record models.Session
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		if record.Token == token {
			return path, &record, nil
		}
	}

	return "", nil, ErrNotFound
}

// FindByToken resolves a token to its session. An expired match is removed
// best-effort and reported as ErrExpired so no expired file survives a
// lookup.
func (s *FileStore) FindByToken(token string) (*models.Session, error) {
	path, record, err := s.findFile(token)
	if err != nil {
		return nil, err
	}
	if record.IsExpired() {
		s.removeFile(path)
		return nil, ErrExpired
	}
	return record, nil
}

// DeleteByToken removes the session matching the token.
func (s *FileStore) DeleteByToken(token string) bool {
	path, _, err := s.findFile(token)
	if err != nil {
		return false
	}
	return s.removeFile(path)
}

// DeleteAllForUser removes every session owned by the user, matching on the
// user-id segment of the filename. Files removed concurrently by another
// request are not counted and not an error.
func (s *FileStore) DeleteAllForUser(userID int64) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}

	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		_, uid, _, ok := parseSessionKey(name)
		if !ok || uid != userID {
			continue
		}
		if s.removeFile(filepath.Join(s.dir, name)) {
			deleted++
		}
	}
	return deleted
}

// UpdateUserSnapshot merges partial fields into the embedded user snapshot
// and rewrites the record in place. The store mutex plus the atomic rename
// in writeRecord keep concurrent merges from losing writes.
func (s *FileStore) UpdateUserSnapshot(token string, fields map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, record, err := s.findFile(token)
	if err != nil {
		return false
	}

	merged, err := MergeSnapshot(record.User, fields)
	if err != nil {
		s.warn("merge", path, err)
		return false
	}
	record.User = merged

	if err := s.writeRecord(path, record); err != nil {
		s.warn("rewrite", path, err)
		return false
	}
	return true
}

// Cleanup deletes at most maxSessions files whose filename-encoded expiry
// is strictly in the past. Expiry is read from the key, not file content,
// so a sweep never opens files. Foreign filenames are skipped and logged.
func (s *FileStore) Cleanup(maxSessions int) int {
	if maxSessions <= 0 {
		maxSessions = DefaultCleanupLimit
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}

	now := time.Now().Unix()
	deleted := 0
	for _, entry := range entries {
		if deleted >= maxSessions {
			break
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		exp, _, _, ok := parseSessionKey(name)
		if !ok {
			if s.logger != nil {
				s.logger.Warn().Str("file", name).Msg("unrecognized file in session directory, skipping")
			}
			continue
		}
		if exp >= now {
			continue
		}
		if s.removeFile(filepath.Join(s.dir, name)) {
			deleted++
		}
	}
	return deleted
}

// Close implements Store. The file store holds no open resources.
func (s *FileStore) Close() error {
	return nil
}

// removeFile deletes a session file, treating already-gone as success=false
// without surfacing an error. Concurrent sweeps may race on the same file.
func (s *FileStore) removeFile(path string) bool {
	err := os.Remove(path)
	if err == nil {
		return true
	}
	if !os.IsNotExist(err) {
		s.warn("delete", path, err)
	}
	return false
}

func (s *FileStore) warn(op, path string, err error) {
	if s.logger != nil {
		s.logger.Warn().Str("op", op).Str("file", filepath.Base(path)).Str("error", err.Error()).Msg("session file operation failed")
	}
}
