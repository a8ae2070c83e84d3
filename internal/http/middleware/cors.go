package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/campusworks/campusgate/internal/origins"
	"github.com/campusworks/campusgate/internal/response"
)

// Preflight surface advertised to allowed cross-origin callers.
var (
	corsAllowedMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	corsAllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "Range"}
	corsExposedHeaders = []string{"Content-Length", "Content-Range", "Accept-Ranges", "X-Request-ID"}
)

// corsMaxAge is how long browsers may cache preflight results, in seconds.
const corsMaxAge = 86400

// CORS returns a middleware that enforces the origin allow list. Requests
// under assetPrefix pass through untouched; the asset handler sets its own
// origin headers and never hard-denies.
//
// Requests without an Origin header are let through with no CORS headers.
// Allowed origins are echoed back literally (credentials are permitted, so
// the wildcard form is never emitted). Denied origins receive a 403 envelope
// and are logged. Any OPTIONS request that survives the decision
// short-circuits with 204 so preflights never reach business handlers.
func CORS(registry *origins.Registry, logger *slog.Logger, assetPrefix string) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	allowMethods := strings.Join(corsAllowedMethods, ", ")
	allowHeaders := strings.Join(corsAllowedHeaders, ", ")
	exposeHeaders := strings.Join(corsExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if assetPrefix != "" && strings.HasPrefix(r.URL.Path, assetPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			decision := registry.Decide(origin)

			switch decision {
			case origins.DecisionDeny:
				logger.WarnContext(r.Context(), "cross-origin request denied",
					slog.String("origin", origin),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				response.WriteError(w, http.StatusForbidden, response.CodeCorsDenied, "origin not allowed")
				return

			case origins.DecisionAllow:
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Expose-Headers", exposeHeaders)

				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", allowMethods)
					h.Set("Access-Control-Allow-Headers", allowHeaders)
					h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
				}
			}

			// Preflight and bare OPTIONS stop here with an empty body.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
