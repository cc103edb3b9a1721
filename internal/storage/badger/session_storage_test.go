package badger

import (
	"testing"
	"time"

	"github.com/LeninZapata/factory-saas-sub002/internal/models"
	"github.com/LeninZapata/factory-saas-sub002/internal/session"
)

func testProfile(id int64) *models.UserProfile {
	return &models.UserProfile{
		ID:     id,
		Name:   "Test User",
		Email:  "user@example.com",
		Role:   "user",
		Config: map[string]any{"permissions": []any{"read"}},
	}
}

func newToken(t *testing.T) string {
	t.Helper()
	token, err := session.GenerateToken(session.DefaultTokenLength)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestSessionStorage_CreateAndFind(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())
	token := newToken(t)

	created, err := sessions.Create(testProfile(7), token, time.Hour, session.Metadata{IPAddress: "10.0.0.1", UserAgent: "test"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.UserID != 7 || created.Token != token {
		t.Errorf("unexpected record: %+v", created)
	}

	found, err := sessions.FindByToken(token)
	if err != nil {
		t.Fatalf("FindByToken failed: %v", err)
	}
	if found.User.Email != "user@example.com" || found.IPAddress != "10.0.0.1" {
		t.Errorf("unexpected found record: %+v", found)
	}
}

func TestSessionStorage_CreateValidation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())

	if _, err := sessions.Create(nil, newToken(t), time.Hour, session.Metadata{}); err == nil {
		t.Error("expected error for nil user, got nil")
	}
	if _, err := sessions.Create(testProfile(1), "", time.Hour, session.Metadata{}); err == nil {
		t.Error("expected error for empty token, got nil")
	}
}

func TestSessionStorage_FindUnknownToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())
	if _, err := sessions.FindByToken(newToken(t)); err != session.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStorage_FindExpiredRemovesRecord(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())
	token := newToken(t)
	if _, err := sessions.Create(testProfile(7), token, -time.Minute, session.Metadata{}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := sessions.FindByToken(token); err != session.ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	// The expired record was removed during the lookup.
	if _, err := sessions.FindByToken(token); err != session.ErrNotFound {
		t.Errorf("expected ErrNotFound after expiry removal, got %v", err)
	}
}

func TestSessionStorage_DeleteByToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())
	token := newToken(t)
	sessions.Create(testProfile(7), token, time.Hour, session.Metadata{})

	if !sessions.DeleteByToken(token) {
		t.Error("expected delete to succeed")
	}
	if _, err := sessions.FindByToken(token); err != session.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSessionStorage_DeleteAllForUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())
	t1 := newToken(t)
	t2 := newToken(t)
	other := newToken(t)
	sessions.Create(testProfile(7), t1, time.Hour, session.Metadata{})
	sessions.Create(testProfile(7), t2, time.Hour, session.Metadata{})
	sessions.Create(testProfile(8), other, time.Hour, session.Metadata{})

	if n := sessions.DeleteAllForUser(7); n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if _, err := sessions.FindByToken(other); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}

	// Second call finds nothing to delete.
	if n := sessions.DeleteAllForUser(7); n != 0 {
		t.Errorf("expected 0 deleted on repeat, got %d", n)
	}
}

func TestSessionStorage_UpdateUserSnapshot(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())
	token := newToken(t)
	sessions.Create(testProfile(7), token, time.Hour, session.Metadata{})

	if !sessions.UpdateUserSnapshot(token, map[string]any{"name": "Renamed", "config": map[string]any{"permissions": []any{"read", "write"}}}) {
		t.Fatal("expected snapshot update to succeed")
	}

	found, err := sessions.FindByToken(token)
	if err != nil {
		t.Fatalf("FindByToken failed: %v", err)
	}
	if found.User.Name != "Renamed" {
		t.Errorf("name not merged: %q", found.User.Name)
	}
	if found.User.Email != "user@example.com" {
		t.Errorf("untouched field lost: %q", found.User.Email)
	}
	perms, _ := found.User.Config["permissions"].([]any)
	if len(perms) != 2 {
		t.Errorf("config not merged: %v", found.User.Config)
	}

	if sessions.UpdateUserSnapshot(newToken(t), map[string]any{"name": "x"}) {
		t.Error("expected snapshot update on unknown token to fail")
	}
}

func TestSessionStorage_Cleanup(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := NewSessionStorage(db, silentLogger())
	for i := 0; i < 5; i++ {
		if _, err := sessions.Create(testProfile(7), newToken(t), -time.Minute, session.Metadata{}); err != nil {
			t.Fatal(err)
		}
	}
	live := newToken(t)
	sessions.Create(testProfile(7), live, time.Hour, session.Metadata{})

	// Bounded pass removes at most the requested number.
	if n := sessions.Cleanup(3); n != 3 {
		t.Errorf("expected 3 cleaned, got %d", n)
	}
	if n := sessions.Cleanup(10); n != 2 {
		t.Errorf("expected 2 cleaned on second pass, got %d", n)
	}

	if _, err := sessions.FindByToken(live); err != nil {
		t.Errorf("live session should survive cleanup: %v", err)
	}
}
