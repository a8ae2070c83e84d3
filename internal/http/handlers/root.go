package handlers

import (
	"net/http"

	"github.com/campusworks/campusgate/internal/response"
	"github.com/campusworks/campusgate/internal/version"
)

// RootHandler answers the service identity document at the root path so
// callers can discover the docs, document, and health locations.
type RootHandler struct {
	version string
}

// NewRootHandler creates a new root identity handler.
func NewRootHandler(serviceVersion string) *RootHandler {
	return &RootHandler{
		version: serviceVersion,
	}
}

// ServeHTTP serves the identity payload.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, ServiceIdentity{
		Service: version.ApplicationName,
		Version: h.version,
		Status:  "ok",
		Docs:    "/api-docs",
		OpenAPI: "/openapi.json",
		Health:  "/health",
	})
}
