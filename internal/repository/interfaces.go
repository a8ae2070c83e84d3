// Package repository defines data access interfaces for campusgate entities.
// All database access goes through these interfaces, enabling easy testing
// and database backend switching.
package repository

import (
	"context"

	"github.com/campusworks/campusgate/internal/models"
)

// CourseRepository defines operations for course persistence.
type CourseRepository interface {
	// Create creates a new course.
	Create(ctx context.Context, course *models.Course) error
	// GetByID retrieves a course by ID.
	GetByID(ctx context.Context, id models.ULID) (*models.Course, error)
	// GetBySlug retrieves a course by its slug. Returns nil when no course
	// carries the slug.
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	// List retrieves courses ordered by sort_order ascending, then creation
	// time descending. An empty status returns every course; otherwise only
	// courses with the given status.
	List(ctx context.Context, status string) ([]*models.Course, error)
	// Update updates an existing course.
	Update(ctx context.Context, course *models.Course) error
	// Delete deletes a course by ID.
	Delete(ctx context.Context, id models.ULID) error
	// Count returns the number of courses.
	Count(ctx context.Context) (int64, error)
}
