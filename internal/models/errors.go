package models

import (
	"errors"
)

// Common validation errors for models.
var (
	// ErrSlugRequired indicates a required slug field is empty.
	ErrSlugRequired = errors.New("slug is required")

	// ErrTitleRequired indicates a required title field is empty.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidCourseStatus indicates an invalid course status.
	ErrInvalidCourseStatus = errors.New("invalid course status: must be 'available' or 'coming-soon'")
)
