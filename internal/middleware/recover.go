package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoverMiddleware converts handler panics into generic 500 responses so a
// single bad request cannot take the server down.
type RecoverMiddleware struct {
	logger *slog.Logger
}

// NewRecoverMiddleware creates a new panic recovery middleware.
func NewRecoverMiddleware(logger *slog.Logger) *RecoverMiddleware {
	return &RecoverMiddleware{logger: logger}
}

// Handler returns middleware that recovers from panics in downstream handlers.
func (m *RecoverMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"method", r.Method,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"status":  "error",
					"message": "An internal error occurred. Please try again later.",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
