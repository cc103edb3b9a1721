package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/interfaces"
	"github.com/LeninZapata/factory-saas-sub002/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles login, logout, and session introspection.
type AuthHandler struct {
	logger      *common.Logger
	users       interfaces.UserStorage
	sessions    session.Store
	ttl         time.Duration
	tokenLength int
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *common.Logger, users interfaces.UserStorage, sessions session.Store, ttl time.Duration, tokenLength int) *AuthHandler {
	if tokenLength <= 0 {
		tokenLength = session.DefaultTokenLength
	}
	return &AuthHandler{
		logger:      logger,
		users:       users,
		sessions:    sessions,
		ttl:         ttl,
		tokenLength: tokenLength,
	}
}

// HandleLogin handles POST /api/auth/login.
// On success it issues a token, persists the session with the user snapshot,
// and returns {token, user, expires_at, ttl_ms}.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || json.Unmarshal(body, &req) != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "missing_credentials", "email and password are required")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		// Unknown account and wrong password are indistinguishable to the client.
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		if h.logger != nil {
			h.logger.Warn().Int64("user_id", user.ID).Str("ip", ClientIP(r)).Msg("failed login attempt")
		}
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	token, err := session.GenerateToken(h.tokenLength)
	if err != nil {
		// Secure random failure is fatal to session creation; never fall
		// back to a weaker generator.
		if h.logger != nil {
			h.logger.Error().Str("error", err.Error()).Msg("token generation failed")
		}
		WriteError(w, http.StatusInternalServerError, "server_error", "could not create session")
		return
	}

	record, err := h.sessions.Create(user.Profile(), token, h.ttl, session.Metadata{
		IPAddress: ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Str("error", err.Error()).Msg("session create failed")
		}
		WriteError(w, http.StatusInternalServerError, "server_error", "could not create session")
		return
	}

	if h.logger != nil {
		h.logger.Info().Int64("user_id", user.ID).Str("ip", record.IPAddress).Msg("login")
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data": map[string]any{
			"token":      token,
			"user":       record.User,
			"expires_at": record.ExpiresAt,
			"ttl_ms":     h.ttl.Milliseconds(),
		},
	})
}

// HandleLogout handles POST /api/auth/logout. It deletes the session for
// the presented bearer token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	token, ok := BearerToken(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "token_missing", "authorization token is required")
		return
	}

	deleted := h.sessions.DeleteByToken(token)
	if h.logger != nil && deleted {
		h.logger.Info().Msg("logout")
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   map[string]any{"deleted": deleted},
	})
}

// HandleSession handles GET /api/auth/session. It returns the identity the
// auth middleware resolved, straight from the session snapshot.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	au := common.AuthUserFromContext(r.Context())
	if au == nil {
		WriteError(w, http.StatusUnauthorized, "token_invalid", "no authenticated session")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data": map[string]any{
			"user_id": au.UserID,
			"user":    au.User,
		},
	})
}
