package badger

import (
	"fmt"
	"log/slog"

	"github.com/LeninZapata/factory-saas-sub002/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// UserStorage implements interfaces.UserStorage using BadgerDB.
type UserStorage struct {
	db     *BadgerDB
	logger *slog.Logger
}

// NewUserStorage creates a new user storage backed by BadgerDB.
func NewUserStorage(db *BadgerDB, logger *slog.Logger) *UserStorage {
	return &UserStorage{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by id.
func (s *UserStorage) GetByID(id int64) (*models.User, error) {
	var user models.User
	err := s.db.Store().Get(id, &user)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (s *UserStorage) GetByEmail(email string) (*models.User, error) {
	var users []models.User
	err := s.db.Store().Find(&users, badgerhold.Where("Email").Eq(email).Index("Email"))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found: %s", email)
	}
	return &users[0], nil
}

// Save stores or updates a user account.
func (s *UserStorage) Save(user *models.User) error {
	if user.ID == 0 {
		return fmt.Errorf("user id is required")
	}
	err := s.db.Store().Upsert(user.ID, user)
	if err != nil {
		return fmt.Errorf("failed to save user %d: %w", user.ID, err)
	}
	return nil
}

// Count returns the number of stored users.
func (s *UserStorage) Count() (int, error) {
	n, err := s.db.Store().Count(&models.User{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return int(n), nil
}
