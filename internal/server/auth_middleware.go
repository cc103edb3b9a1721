package server

import (
	"errors"
	"net/http"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/handlers"
	"github.com/LeninZapata/factory-saas-sub002/internal/session"
)

// requireAuth guards a handler behind bearer-token authentication.
//
// Per-request state machine: no token -> reject token_missing; otherwise
// lookup -> valid (continue with identity in context), not found -> reject
// token_invalid, expired -> record already removed by the lookup, reject
// token_expired. A bounded expiry sweep piggybacks on every request that
// presented a token, accepted or rejected. A request without any token
// never touches the session store at all.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := handlers.BearerToken(r)
		if !ok {
			handlers.WriteError(w, http.StatusUnauthorized, "token_missing", "authorization token is required")
			return
		}

		defer s.sessions.Cleanup(session.DefaultCleanupLimit)

		record, err := s.sessions.FindByToken(token)
		if err != nil {
			if errors.Is(err, session.ErrExpired) {
				handlers.WriteError(w, http.StatusUnauthorized, "token_expired", "session has expired")
				return
			}
			handlers.WriteError(w, http.StatusUnauthorized, "token_invalid", "invalid session token")
			return
		}

		au := &common.AuthUser{
			UserID: record.UserID,
			User:   record.User,
			Token:  token,
		}
		next(w, r.WithContext(common.WithAuthUser(r.Context(), au)))
	}
}
