package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders returns a middleware applying the fixed response header
// baseline to every response.
//
// Content-Security-Policy is deliberately not set: the service hosts media
// that other origins embed, and a strict default policy would block those
// loads. Cross-Origin-Embedder-Policy is emitted only under assetPrefix so
// embedding pages that opt into cross-origin isolation can still load media
// from here.
func SecurityHeaders(assetPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("X-DNS-Prefetch-Control", "off")
			h.Set("X-Download-Options", "noopen")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
			h.Set("Origin-Agent-Cluster", "?1")
			h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			h.Set("X-XSS-Protection", "0")
			h.Set("Cross-Origin-Resource-Policy", "cross-origin")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")

			if assetPrefix != "" && strings.HasPrefix(r.URL.Path, assetPrefix) {
				h.Set("Cross-Origin-Embedder-Policy", "unsafe-none")
			}

			next.ServeHTTP(w, r)
		})
	}
}
