package models

import (
	"strings"

	"gorm.io/gorm"
)

// Course status values.
const (
	// CourseStatusAvailable marks a course that is open for enrolment.
	CourseStatusAvailable = "available"

	// CourseStatusComingSoon marks a course that is announced but not yet open.
	CourseStatusComingSoon = "coming-soon"
)

// ValidCourseStatuses lists the accepted values for Course.Status.
var ValidCourseStatuses = []string{CourseStatusAvailable, CourseStatusComingSoon}

// Course represents a published course on the institute site.
type Course struct {
	BaseModel

	// Slug is the URL-safe identifier used for lookups, unique across courses.
	Slug string `gorm:"size:255;not null;uniqueIndex" json:"slug"`

	// Title is the display name of the course.
	Title string `gorm:"not null;size:512" json:"title"`

	// Summary is a short description shown in listings.
	Summary string `gorm:"type:text" json:"summary,omitempty"`

	// Status indicates whether the course is available or coming soon.
	Status string `gorm:"size:50;not null;default:coming-soon;index" json:"status"`

	// SortOrder controls listing position; lower values sort first.
	SortOrder int `gorm:"default:0;index" json:"sort_order"`

	// ThumbnailPath is the path of the card image under the uploads root.
	ThumbnailPath string `gorm:"size:2048" json:"thumbnail_path,omitempty"`

	// PromoVideoPath is the path of the preview video under the uploads root.
	PromoVideoPath string `gorm:"size:2048" json:"promo_video_path,omitempty"`
}

// TableName returns the table name for Course.
func (Course) TableName() string {
	return "courses"
}

// Available reports whether the course is open for enrolment. Every API
// representation carries this flag so callers never compare status strings.
func (c *Course) Available() bool {
	return c.Status == CourseStatusAvailable
}

// Validate performs basic validation on the course.
func (c *Course) Validate() error {
	if c.Slug == "" {
		return ErrSlugRequired
	}
	if c.Title == "" {
		return ErrTitleRequired
	}
	if !isValidCourseStatus(c.Status) {
		return ErrInvalidCourseStatus
	}
	return nil
}

func isValidCourseStatus(status string) bool {
	for _, s := range ValidCourseStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// BeforeCreate is a GORM hook that normalizes the slug, validates the course
// and generates a ULID.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if err := c.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	c.Slug = NormalizeSlug(c.Slug)
	return c.Validate()
}

// BeforeUpdate is a GORM hook that validates the course before update.
func (c *Course) BeforeUpdate(tx *gorm.DB) error {
	c.Slug = NormalizeSlug(c.Slug)
	return c.Validate()
}

// NormalizeSlug lowercases a slug and trims surrounding whitespace so
// lookups are deterministic regardless of how the slug was entered.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
