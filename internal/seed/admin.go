// Package seed provisions first-run data.
package seed

import (
	"fmt"
	"os"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/interfaces"
	"github.com/LeninZapata/factory-saas-sub002/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminID    = 1
	adminEmail = "admin@localhost"
	adminName  = "Administrator"
)

// defaultAdminPassword is used only when FACTORY_ADMIN_PASSWORD is unset.
const defaultAdminPassword = "admin"

// Admin ensures a default admin account exists on an empty user store.
// It is idempotent: a non-empty store is left untouched.
func Admin(users interfaces.UserStorage, logger *common.Logger) error {
	count, err := users.Count()
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("FACTORY_ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
		if logger != nil {
			logger.Warn().Msg("seeding admin with default password, set FACTORY_ADMIN_PASSWORD to override")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash admin password: %w", err)
	}

	admin := &models.User{
		ID:       adminID,
		Name:     adminName,
		Email:    adminEmail,
		Password: string(hash),
		Role:     "admin",
		Config:   map[string]any{"permissions": []any{"*"}},
	}

	if err := users.Save(admin); err != nil {
		return fmt.Errorf("seed: save admin: %w", err)
	}

	if logger != nil {
		logger.Info().Str("email", adminEmail).Msg("seeded default admin account")
	}
	return nil
}
