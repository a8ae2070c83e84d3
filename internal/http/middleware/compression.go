package middleware

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Compression returns gzip and brotli response compression for compressible
// content types. Requests under assetPrefix bypass compression entirely:
// byte-range responses must keep their exact Content-Length, and media files
// are already compressed.
func Compression(level int, assetPrefix string) func(http.Handler) http.Handler {
	compressor := chimiddleware.NewCompressor(level)
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	return SkipCompressionForPaths(compressor.Handler, assetPrefix)
}

// SkipCompressionForPaths wraps a compression middleware so requests whose
// path falls under one of the given prefixes skip it.
func SkipCompressionForPaths(compressionHandler func(http.Handler) http.Handler, prefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		compressed := compressionHandler(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range prefixes {
				if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			compressed.ServeHTTP(w, r)
		})
	}
}
