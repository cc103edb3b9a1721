package common

import (
	"context"

	"github.com/LeninZapata/factory-saas-sub002/internal/models"
)

// AuthUser holds the identity resolved by the auth middleware for one
// request: the session owner's id, the user snapshot embedded in the
// session record, and the bearer token the request presented.
type AuthUser struct {
	UserID int64
	User   *models.UserProfile
	Token  string
}

type contextKey int

const authUserContextKey contextKey = iota

// WithAuthUser stores the resolved identity in the request context.
func WithAuthUser(ctx context.Context, au *AuthUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, au)
}

// AuthUserFromContext retrieves the resolved identity, or nil if the
// request did not pass the auth middleware.
func AuthUserFromContext(ctx context.Context) *AuthUser {
	au, _ := ctx.Value(authUserContextKey).(*AuthUser)
	return au
}
