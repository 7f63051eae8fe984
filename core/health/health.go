package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailcraft/core/logger"
)

// Check reports whether one dependency is usable.
type Check func(context.Context) error

// Liveness answers 200 "ALIVE" without checking dependencies.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ALIVE"))
}

// Readiness answers 200 "READY" when every check passes and 503 otherwise.
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT READY"))
				return
			}
		}
		_, _ = w.Write([]byte("READY"))
	}
}
