package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/campusgate/internal/origins"
)

const testAllowedOrigin = "http://localhost:3000"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	registry := origins.NewRegistry([]string{testAllowedOrigin}, "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(DefaultServerConfig(), logger, "test", registry)
}

func serveRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeErrorEnvelope(t *testing.T, body []byte) (bool, string, string) {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Err     struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Success, envelope.Err.Code, envelope.Err.Message
}

func TestDefaultServerConfig(t *testing.T) {
	config := DefaultServerConfig()

	assert.Equal(t, "0.0.0.0", config.Host)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, 30*time.Second, config.ReadTimeout)
	assert.Equal(t, 30*time.Second, config.WriteTimeout)
	assert.Equal(t, 120*time.Second, config.IdleTimeout)
	assert.Equal(t, 30*time.Second, config.ShutdownTimeout)
	assert.False(t, config.RequestLogging)
}

func TestServer_SecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv.Router().Get("/uploads/clip.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("api route", func(t *testing.T) {
		rec := serveRequest(srv, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
		assert.Equal(t, "same-origin", rec.Header().Get("Cross-Origin-Opener-Policy"))
		assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
		assert.Empty(t, rec.Header().Get("Cross-Origin-Embedder-Policy"))
	})

	t.Run("uploads route carries embedder policy", func(t *testing.T) {
		rec := serveRequest(srv, httptest.NewRequest(http.MethodGet, "/uploads/clip.mp4", nil))

		assert.Equal(t, "unsafe-none", rec.Header().Get("Cross-Origin-Embedder-Policy"))
	})
}

func TestServer_CORSAllow(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", testAllowedOrigin)
	rec := serveRequest(srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testAllowedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Values("Vary"), "Origin")
}

func TestServer_CORSDeny(t *testing.T) {
	srv := newTestServer(t)
	reached := false
	srv.Router().Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := serveRequest(srv, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached, "denied request must not reach the handler")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	success, code, message := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "cors_denied", code)
	assert.NotContains(t, message, "evil.example")
}

func TestServer_Preflight(t *testing.T) {
	srv := newTestServer(t)
	reached := false
	srv.Router().Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", testAllowedOrigin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := serveRequest(srv, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.False(t, reached, "preflight must not reach business handlers")
	assert.Equal(t, testAllowedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestServer_PreflightDenied(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := serveRequest(srv, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_NotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t)

	rec := serveRequest(srv, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	success, code, _ := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "not_found", code)
}

func TestServer_MethodNotAllowedEnvelope(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := serveRequest(srv, httptest.NewRequest(http.MethodPost, "/api/ping", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	success, code, _ := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "method_not_allowed", code)
}

type pingInput struct {
	Count int `query:"count" minimum:"3" doc:"Minimum accepted count"`
}

type pingOutput struct {
	Body struct {
		Success bool `json:"success"`
		Data    int  `json:"data"`
	}
}

func registerPingOp(srv *Server, handler func(context.Context, *pingInput) (*pingOutput, error)) {
	huma.Register(srv.API(), huma.Operation{
		OperationID: "ping",
		Method:      "GET",
		Path:        "/api/ping",
		Summary:     "Ping",
	}, handler)
}

func TestServer_HumaValidationEnvelope(t *testing.T) {
	srv := newTestServer(t)
	registerPingOp(srv, func(ctx context.Context, input *pingInput) (*pingOutput, error) {
		out := &pingOutput{}
		out.Body.Success = true
		out.Body.Data = input.Count
		return out, nil
	})

	rec := serveRequest(srv, httptest.NewRequest(http.MethodGet, "/api/ping?count=1", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	success, code, _ := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "validation_failed", code)
}

func TestServer_HumaNotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t)
	registerPingOp(srv, func(ctx context.Context, input *pingInput) (*pingOutput, error) {
		return nil, huma.Error404NotFound("thing not found")
	})

	rec := serveRequest(srv, httptest.NewRequest(http.MethodGet, "/api/ping?count=5", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	success, code, message := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "not_found", code)
	assert.Equal(t, "thing not found", message)
}

func TestServer_InternalErrorSuppressed(t *testing.T) {
	srv := newTestServer(t)
	registerPingOp(srv, func(ctx context.Context, input *pingInput) (*pingOutput, error) {
		return nil, huma.Error500InternalServerError("query failed", errors.New("dsn secret leaked"))
	})

	rec := serveRequest(srv, httptest.NewRequest(http.MethodGet, "/api/ping?count=5", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	success, code, message := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "internal_error", code)
	assert.Equal(t, "internal server error", message)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestServer_PanicRecovered(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/api/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("exploded")
	})

	var rec *httptest.ResponseRecorder
	assert.NotPanics(t, func() {
		rec = serveRequest(srv, httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	success, code, message := decodeErrorEnvelope(t, rec.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "internal_error", code)
	assert.NotContains(t, message, "exploded")
}

func TestServer_RequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)
	srv.Router().Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		rec := serveRequest(srv, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("honored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("X-Request-ID", "req-1234")
		rec := serveRequest(srv, req)
		assert.Equal(t, "req-1234", rec.Header().Get("X-Request-ID"))
	})
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	srv := newTestServer(t)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
