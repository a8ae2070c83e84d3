// Package handlers provides the HTTP endpoints campusgate serves.
package handlers

import (
	"time"

	"github.com/campusworks/campusgate/internal/models"
)

// Common response types

// Envelope is the uniform success wrapper for JSON API responses. Failures
// carry the matching error shape; see internal/response.
type Envelope[T any] struct {
	Success bool `json:"success" example:"true" doc:"Always true for successful responses"`
	Data    T    `json:"data"`
}

// Wrap places a payload in the success envelope.
func Wrap[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}

// Course types

// CourseResponse represents a course in API responses.
type CourseResponse struct {
	ID         models.ULID `json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Slug       string      `json:"slug"`
	Title      string      `json:"title"`
	Summary    string      `json:"summary,omitempty"`
	Status     string      `json:"status"`
	Available  bool        `json:"available"`
	SortOrder  int         `json:"sort_order"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	PromoVideo string      `json:"promo_video,omitempty"`
}

// CourseFromModel converts a model to a response. Media paths stored relative
// to the uploads root are published as /uploads/ URLs.
func CourseFromModel(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:         c.ID,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Slug:       c.Slug,
		Title:      c.Title,
		Summary:    c.Summary,
		Status:     c.Status,
		Available:  c.Available(),
		SortOrder:  c.SortOrder,
		Thumbnail:  uploadURL(c.ThumbnailPath),
		PromoVideo: uploadURL(c.PromoVideoPath),
	}
}

// CourseListData is the payload for course listings.
type CourseListData struct {
	Courses []CourseResponse `json:"courses"`
	Count   int              `json:"count"`
}

// Health types

// HealthResponse represents the health check response. Status and Timestamp
// are the stable contract; the remaining fields are informational.
type HealthResponse struct {
	Status        string            `json:"status"`
	Timestamp     string            `json:"timestamp"`
	Version       string            `json:"version"`
	Uptime        string            `json:"uptime"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	CPU           CPUInfo           `json:"cpu"`
	Memory        MemoryInfo        `json:"memory"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// CPUInfo contains CPU load information.
type CPUInfo struct {
	Cores     int     `json:"cores"`
	Load1Min  float64 `json:"load_1min"`
	Load5Min  float64 `json:"load_5min"`
	Load15Min float64 `json:"load_15min"`
}

// MemoryInfo contains system and process memory usage in megabytes.
type MemoryInfo struct {
	TotalMB     float64 `json:"total_mb"`
	UsedMB      float64 `json:"used_mb"`
	AvailableMB float64 `json:"available_mb"`
	ProcessMB   float64 `json:"process_mb"`
}

// Identity types

// ServiceIdentity is the discovery payload served at the root path.
type ServiceIdentity struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Docs    string `json:"docs"`
	OpenAPI string `json:"openapi"`
	Health  string `json:"health"`
}
