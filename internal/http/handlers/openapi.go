package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campusworks/campusgate/internal/http/middleware"
	"github.com/campusworks/campusgate/internal/openapi"
	"github.com/campusworks/campusgate/internal/response"
)

// OpenAPIHandler publishes the OpenAPI document at /openapi.json with the
// servers entry rewritten for the requesting host.
type OpenAPIHandler struct {
	publisher *openapi.Publisher
	logger    *slog.Logger
}

// NewOpenAPIHandler creates a new OpenAPI document handler.
func NewOpenAPIHandler(publisher *openapi.Publisher, logger *slog.Logger) *OpenAPIHandler {
	return &OpenAPIHandler{
		publisher: publisher,
		logger:    logger,
	}
}

// ServeHTTP serves the rewritten document as JSON.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := h.publisher.Document(r)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "openapi document unavailable",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		response.WriteError(w, http.StatusInternalServerError, response.CodeInternalError, "internal server error")
		return
	}

	body, err := json.Marshal(doc)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "openapi document marshal failed",
			slog.String("error", err.Error()),
		)
		response.WriteError(w, http.StatusInternalServerError, response.CodeInternalError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
