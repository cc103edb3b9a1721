package interfaces

import (
	"github.com/LeninZapata/factory-saas-sub002/internal/models"
	"github.com/LeninZapata/factory-saas-sub002/internal/session"
)

// UserStorage provides user account persistence.
type UserStorage interface {
	GetByID(id int64) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Save(user *models.User) error
	Count() (int, error)
}

// StorageManager provides access to domain-specific storage interfaces.
// The session backend can be swapped (file store now, embedded KV later).
type StorageManager interface {
	Users() UserStorage
	Sessions() session.Store
	Close() error
}
