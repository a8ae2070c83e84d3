package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/campusgate/internal/openapi"
)

func setupOpenAPIHandler(t *testing.T, specContent string) *OpenAPIHandler {
	t.Helper()

	specPath := filepath.Join(t.TempDir(), "openapi.json")
	if specContent != "" {
		require.NoError(t, os.WriteFile(specPath, []byte(specContent), 0o600))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := openapi.NewPublisher(specPath, "", "http://localhost:8080", logger)
	return NewOpenAPIHandler(publisher, logger)
}

func TestOpenAPIHandler_RewritesServers(t *testing.T) {
	handler := setupOpenAPIHandler(t, `{
		"openapi": "3.1.0",
		"info": {"title": "campusgate API", "version": "1.0.0"},
		"servers": [{"url": "http://stale.internal:9999"}],
		"paths": {}
	}`)

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	req.Host = "gateway.local"
	req.Header.Set("X-Forwarded-Host", "example.com")
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	assert.Equal(t, "campusgate API", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://example.com", doc.Servers[0].URL)
}

func TestOpenAPIHandler_MissingFileServesMinimalDocument(t *testing.T) {
	handler := setupOpenAPIHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	req.Host = "localhost:8080"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])
	assert.NotEmpty(t, doc["servers"])
}

func TestOpenAPIHandler_MalformedFile(t *testing.T) {
	handler := setupOpenAPIHandler(t, "{not json at all")

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
	assert.NotContains(t, rec.Body.String(), "openapi.json", "error body must not leak the spec path")
}
