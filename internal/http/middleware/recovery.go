package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/campusworks/campusgate/internal/response"
)

// Recovery is a middleware that recovers from panics, logs the error and
// converts it into the standard 500 envelope. Per-request failures never
// crash the process.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)

					response.WriteError(w, http.StatusInternalServerError,
						response.CodeInternalError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
