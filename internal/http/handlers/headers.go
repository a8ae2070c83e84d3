package handlers

import (
	"net/http"
	"strings"

	"github.com/campusworks/campusgate/internal/response"
)

// HeadersHandler echoes the response headers the middleware pipeline has set
// so far, for verifying security-header and CORS composition behind proxies.
// The route is only mounted when debug.expose_headers is enabled; it reflects
// internal header state and stays off in production.
type HeadersHandler struct{}

// NewHeadersHandler creates a new headers echo handler.
func NewHeadersHandler() *HeadersHandler {
	return &HeadersHandler{}
}

// ServeHTTP serves the header snapshot. The snapshot is taken before the
// envelope writer adds its own Content-Type.
func (h *HeadersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := make(map[string]string, len(w.Header()))
	for name, values := range w.Header() {
		snapshot[name] = strings.Join(values, ", ")
	}

	response.WriteJSON(w, http.StatusOK, struct {
		Headers map[string]string `json:"headers"`
	}{
		Headers: snapshot,
	})
}
