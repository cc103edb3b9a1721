package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LeninZapata/factory-saas-sub002/internal/handlers"
)

// fileRateLimiter is a fixed-window per-client counter persisted in a
// single JSON file, so limits survive restarts. Corrupt or missing state
// resets the window rather than failing the request. The mutex serializes
// access within one process only; a second process on the same file can
// lose increments between load and save, which under-counts but never
// blocks a legitimate client.
type fileRateLimiter struct {
	path   string
	limit  int
	window time.Duration
	logger *slog.Logger
	mu     sync.Mutex
}

type rateWindow struct {
	Count       int   `json:"count"`
	WindowStart int64 `json:"window_start"`
}

func newFileRateLimiter(path string, limit int, window time.Duration, logger *slog.Logger) *fileRateLimiter {
	return &fileRateLimiter{
		path:   path,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// allow records one request for the key and reports whether it is within
// the window limit.
func (l *fileRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.load()
	now := time.Now().Unix()
	windowSecs := int64(l.window / time.Second)

	w := state[key]
	if now-w.WindowStart >= windowSecs {
		w = rateWindow{WindowStart: now}
	}
	w.Count++
	state[key] = w

	// Drop windows stale by more than one full period to bound file size.
	for k, v := range state {
		if now-v.WindowStart >= 2*windowSecs {
			delete(state, k)
		}
	}

	l.save(state)
	return w.Count <= l.limit
}

func (l *fileRateLimiter) load() map[string]rateWindow {
	state := make(map[string]rateWindow)
	data, err := os.ReadFile(l.path)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		if l.logger != nil {
			l.logger.Warn("rate limit state corrupt, resetting", "path", l.path)
		}
		return make(map[string]rateWindow)
	}
	return state
}

func (l *fileRateLimiter) save(state map[string]rateWindow) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		l.warnSave(err)
		return
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		l.warnSave(err)
		return
	}
	if err := os.Rename(tmp, l.path); err != nil {
		l.warnSave(err)
	}
}

func (l *fileRateLimiter) warnSave(err error) {
	if l.logger != nil {
		l.logger.Warn("failed to persist rate limit state", "path", l.path, "error", err)
	}
}

// withRateLimit throttles a handler per client IP. Throttle failures never
// block requests; only an over-limit counter does.
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.allow(handlers.ClientIP(r)) {
			handlers.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, retry later")
			return
		}
		next(w, r)
	}
}
