package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campuskit/notify/pkg/logger"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

// Healthcheck returns a probe handler. With no checks it is a liveness
// probe and always reports ok. With checks it is a readiness probe: all
// checks must pass, and a failing check's name is reported with a 503.
func Healthcheck(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failed := make([]string, 0)
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				log.LogAttrs(r.Context(), slog.LevelError, "readiness check failed",
					slog.String("check", name),
					logger.Error(err),
				)
				failed = append(failed, name)
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if len(failed) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "unavailable", "failed": failed})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
