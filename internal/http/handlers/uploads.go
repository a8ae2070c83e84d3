package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/campusworks/campusgate/internal/http/middleware"
	"github.com/campusworks/campusgate/internal/origins"
	"github.com/campusworks/campusgate/internal/response"
	"github.com/campusworks/campusgate/internal/storage"
	"github.com/campusworks/campusgate/pkg/httprange"
)

// Headers attached to every uploads response.
const (
	assetCacheControl  = "public, max-age=3600"
	assetAllowMethods  = "GET, HEAD, OPTIONS"
	assetExposeHeaders = "Content-Length, Content-Range, Accept-Ranges, X-Request-ID"
	assetAllowHeaders  = "Accept, Range"
	assetMaxAge        = "86400"
)

// UploadsHandler serves files from the sandboxed uploads root. Range requests
// are honored for media seeking; a single byte range yields 206, anything
// malformed or unsatisfiable yields 416 with a "bytes */size" Content-Range.
// Paths that resolve outside the root, directories, and missing files all
// answer a uniform 404 that never reflects the requested path.
//
// Unlike the API routes, a disallowed Origin is not rejected here: the allow
// header is simply omitted so same-origin media keeps working.
type UploadsHandler struct {
	sandbox  *storage.Sandbox
	registry *origins.Registry
	logger   *slog.Logger
	prefix   string
}

// NewUploadsHandler creates a new uploads handler serving under /uploads.
func NewUploadsHandler(sandbox *storage.Sandbox, registry *origins.Registry, logger *slog.Logger) *UploadsHandler {
	return &UploadsHandler{
		sandbox:  sandbox,
		registry: registry,
		logger:   logger,
		prefix:   "/uploads",
	}
}

// ServeHTTP serves a single asset request.
func (h *UploadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.applyAssetHeaders(w, r)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		h.servePreflight(w)
		return
	default:
		w.Header().Set("Allow", assetAllowMethods)
		response.WriteError(w, http.StatusMethodNotAllowed, response.CodeMethodNotAllowed, "method not allowed")
		return
	}

	relative := strings.TrimPrefix(r.URL.Path, h.prefix)
	relative = strings.TrimPrefix(relative, "/")
	if relative == "" {
		h.notFound(w)
		return
	}

	info, err := h.sandbox.Stat(relative)
	if err != nil {
		if errors.Is(err, storage.ErrEscapesRoot) {
			h.logger.WarnContext(r.Context(), "upload path rejected",
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
		}
		h.notFound(w)
		return
	}
	if info.IsDir() {
		h.notFound(w)
		return
	}

	size := info.Size()
	byteRange, err := httprange.Parse(r.Header.Get("Range"), size)
	if err != nil {
		w.Header().Set("Content-Range", httprange.Unsatisfied(size))
		response.WriteError(w, http.StatusRequestedRangeNotSatisfiable, response.CodeRangeNotSatisfiable, "range not satisfiable")
		return
	}

	file, err := h.sandbox.Open(relative)
	if err != nil {
		h.notFound(w)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", h.contentType(relative, file))

	if byteRange == nil {
		h.serveFull(w, r, file, size)
		return
	}
	h.servePartial(w, r, file, *byteRange, size)
}

// applyAssetHeaders sets the headers carried by every response from this
// path: range advertisement, caching, and the per-origin CORS grant. Allowed
// origins are echoed literally; absent or disallowed origins get no allow
// header at all. Vary is always set since cached variants differ by origin.
func (h *UploadsHandler) applyAssetHeaders(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Accept-Ranges", "bytes")
	header.Set("Cache-Control", assetCacheControl)
	header.Add("Vary", "Origin")

	origin := r.Header.Get("Origin")
	if h.registry.Decide(origin) == origins.DecisionAllow {
		header.Set("Access-Control-Allow-Origin", origin)
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Expose-Headers", assetExposeHeaders)
	}
}

// servePreflight answers OPTIONS with the decided headers and no body.
func (h *UploadsHandler) servePreflight(w http.ResponseWriter) {
	header := w.Header()
	header.Set("Allow", assetAllowMethods)
	if header.Get("Access-Control-Allow-Origin") != "" {
		header.Set("Access-Control-Allow-Methods", assetAllowMethods)
		header.Set("Access-Control-Allow-Headers", assetAllowHeaders)
		header.Set("Access-Control-Max-Age", assetMaxAge)
	}
	w.WriteHeader(http.StatusNoContent)
}

// serveFull streams the whole file with a 200.
func (h *UploadsHandler) serveFull(w http.ResponseWriter, r *http.Request, file io.Reader, size int64) {
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, file); err != nil {
		// Client went away mid-transfer; there is nothing left to send.
		h.logger.DebugContext(r.Context(), "upload transfer aborted",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// servePartial streams the requested byte range with a 206.
func (h *UploadsHandler) servePartial(w http.ResponseWriter, r *http.Request, file io.ReadSeeker, byteRange httprange.ByteRange, size int64) {
	if _, err := file.Seek(byteRange.Start, io.SeekStart); err != nil {
		h.logger.ErrorContext(r.Context(), "upload seek failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		response.WriteError(w, http.StatusInternalServerError, response.CodeInternalError, "internal server error")
		return
	}

	w.Header().Set("Content-Range", byteRange.ContentRange(size))
	w.Header().Set("Content-Length", strconv.FormatInt(byteRange.Length(), 10))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.CopyN(w, file, byteRange.Length()); err != nil {
		h.logger.DebugContext(r.Context(), "upload transfer aborted",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// contentType resolves the media type from the file extension, sniffing the
// first bytes when the extension is unknown. The reader is rewound afterwards
// so serving starts at the right offset.
func (h *UploadsHandler) contentType(relativePath string, file io.ReadSeeker) string {
	if ctype := mime.TypeByExtension(filepath.Ext(relativePath)); ctype != "" {
		return ctype
	}

	var buf [512]byte
	n, _ := io.ReadFull(file, buf[:])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "application/octet-stream"
	}
	return http.DetectContentType(buf[:n])
}

// notFound answers with the uniform asset 404. The requested path is never
// echoed back.
func (h *UploadsHandler) notFound(w http.ResponseWriter) {
	response.WriteError(w, http.StatusNotFound, response.CodeNotFound, "not found")
}
