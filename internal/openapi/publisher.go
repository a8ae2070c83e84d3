// Package openapi publishes a pre-authored OpenAPI document, rewriting its
// servers list to match the URL each request arrived on so the docs UI and
// generated clients always target the host that served them.
package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// serverDescription is the fixed description attached to the injected server entry.
const serverDescription = "Current request host"

// Publisher serves an on-disk OpenAPI document with per-request server URLs.
type Publisher struct {
	specPath    string
	baseURL     string
	fallbackURL string
	logger      *slog.Logger
}

// NewPublisher creates a Publisher reading the document at specPath.
// baseURL, when non-empty, overrides per-request URL resolution. fallbackURL
// is used when a request carries no usable host information.
func NewPublisher(specPath, baseURL, fallbackURL string, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		specPath:    specPath,
		baseURL:     strings.TrimSpace(baseURL),
		fallbackURL: fallbackURL,
		logger:      log,
	}
}

// Document loads the specification from disk and returns a copy whose
// servers list is replaced with a single entry for the URL resolved from
// this request. The on-disk file is never modified. A missing file degrades
// to a minimal valid document so the docs UI still renders.
func (p *Publisher) Document(r *http.Request) (map[string]any, error) {
	doc, err := p.load()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		p.logger.Warn("openapi document missing, serving minimal document",
			slog.String("path", p.specPath))
		doc = minimalDocument()
	}

	doc["servers"] = []any{
		map[string]any{
			"url":         p.ServerURL(r),
			"description": serverDescription,
		},
	}
	return doc, nil
}

// ServerURL resolves the base URL advertised in the published document.
// Order: configured base URL (trailing slashes stripped), then forwarding
// headers over the request's own protocol and host, then the fixed fallback
// when the request carries no host at all.
func (p *Publisher) ServerURL(r *http.Request) string {
	if p.baseURL != "" {
		return strings.TrimRight(p.baseURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}
	if host == "" {
		return p.fallbackURL
	}

	return scheme + "://" + host
}

// load reads and parses the on-disk document. The document is read on every
// call; the endpoint is low-traffic and this keeps edits visible without a
// restart.
func (p *Publisher) load() (map[string]any, error) {
	data, err := os.ReadFile(p.specPath)
	if err != nil {
		return nil, fmt.Errorf("reading openapi document: %w", err)
	}

	var doc map[string]any
	switch strings.ToLower(filepath.Ext(p.specPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing openapi YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing openapi JSON: %w", err)
		}
	}

	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// minimalDocument returns the smallest valid document served when the
// configured file does not exist.
func minimalDocument() map[string]any {
	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":   "campusgate API",
			"version": "0.0.0",
		},
		"paths": map[string]any{},
	}
}
