package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/interfaces"
	"github.com/LeninZapata/factory-saas-sub002/internal/session"
)

// UsersHandler handles user profile reads and updates.
type UsersHandler struct {
	logger   *common.Logger
	users    interfaces.UserStorage
	sessions session.Store
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(logger *common.Logger, users interfaces.UserStorage, sessions session.Store) *UsersHandler {
	return &UsersHandler{
		logger:   logger,
		users:    users,
		sessions: sessions,
	}
}

// userIDFromPath parses the trailing id segment of /api/users/{id}.
func userIDFromPath(path string) (int64, bool) {
	raw := strings.TrimPrefix(path, "/api/users/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// HandleGet handles GET /api/users/{id}. Users may read their own profile;
// admins may read anyone's.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	au := common.AuthUserFromContext(r.Context())
	if au == nil {
		WriteError(w, http.StatusUnauthorized, "token_invalid", "no authenticated session")
		return
	}

	id, ok := userIDFromPath(r.URL.Path)
	if !ok {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}

	if au.UserID != id && !au.User.IsAdmin() {
		WriteError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   user.Profile(),
	})
}

// HandleUpdate handles PUT /api/users/{id} for profile and permission edits.
//
// A self-edit merges the changed fields into the live session snapshot so
// the bearer keeps working without re-login. An admin editing another user
// invalidates every session of that user, forcing re-login under the new
// permission config.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	au := common.AuthUserFromContext(r.Context())
	if au == nil {
		WriteError(w, http.StatusUnauthorized, "token_invalid", "no authenticated session")
		return
	}

	id, ok := userIDFromPath(r.URL.Path)
	if !ok {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}

	selfEdit := au.UserID == id
	if !selfEdit && !au.User.IsAdmin() {
		WriteError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
		return
	}

	var req struct {
		Name   *string        `json:"name"`
		Role   *string        `json:"role"`
		Config map[string]any `json:"config"`
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || json.Unmarshal(body, &req) != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	changed := make(map[string]any)
	if req.Name != nil {
		user.Name = *req.Name
		changed["name"] = user.Name
	}
	if req.Role != nil {
		if !au.User.IsAdmin() {
			WriteError(w, http.StatusForbidden, "forbidden", "only admins can change roles")
			return
		}
		user.Role = *req.Role
		changed["role"] = user.Role
	}
	if req.Config != nil {
		user.Config = req.Config
		changed["config"] = user.Config
	}

	if len(changed) == 0 {
		WriteError(w, http.StatusBadRequest, "bad_request", "no updatable fields in body")
		return
	}

	if err := h.users.Save(user); err != nil {
		if h.logger != nil {
			h.logger.Error().Int64("user_id", id).Str("error", err.Error()).Msg("user save failed")
		}
		WriteError(w, http.StatusInternalServerError, "server_error", "could not save user")
		return
	}

	invalidated := 0
	if selfEdit {
		h.sessions.UpdateUserSnapshot(au.Token, changed)
	} else {
		invalidated = h.sessions.DeleteAllForUser(id)
		if h.logger != nil {
			h.logger.Info().Int64("user_id", id).Int("sessions", invalidated).Msg("invalidated sessions after admin edit")
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data": map[string]any{
			"user":                 user.Profile(),
			"sessions_invalidated": invalidated,
		},
	})
}
