package handlers

import (
	"net/http"

	common "github.com/LeninZapata/factory-saas-sub002/internal/common"
	"github.com/LeninZapata/factory-saas-sub002/internal/interfaces"
)

// HealthHandler handles health check requests. It probes the user store so
// a wedged database surfaces as degraded instead of a silent "ok".
type HealthHandler struct {
	logger  *common.Logger
	users   interfaces.UserStorage
	backend string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, users interfaces.UserStorage, backend string) *HealthHandler {
	return &HealthHandler{logger: logger, users: users, backend: backend}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if h.users != nil {
		if _, err := h.users.Count(); err != nil {
			if h.logger != nil {
				h.logger.Warn().Str("error", err.Error()).Msg("health probe failed")
			}
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "degraded",
				"backend": h.backend,
			})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": h.backend,
	})
}
