package handlers

import (
	"fmt"

	"github.com/LeninZapata/factory-saas-sub002/internal/models"
)

// memUsers is an in-memory interfaces.UserStorage for handler tests.
type memUsers struct {
	users map[int64]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{users: make(map[int64]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByID(id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found: %d", id)
	}
	copy := *u
	return &copy, nil
}

func (m *memUsers) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("user not found: %s", email)
}

func (m *memUsers) Save(user *models.User) error {
	if user.ID == 0 {
		return fmt.Errorf("user id is required")
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *memUsers) Count() (int, error) {
	return len(m.users), nil
}
