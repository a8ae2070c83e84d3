package repository

import (
	"context"
	"fmt"

	"github.com/campusworks/campusgate/internal/models"
	"gorm.io/gorm"
)

// courseRepo implements CourseRepository using GORM.
type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *gorm.DB) *courseRepo {
	return &courseRepo{db: db}
}

// Create creates a new course.
func (r *courseRepo) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by ID.
func (r *courseRepo) GetByID(ctx context.Context, id models.ULID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course by ID: %w", err)
	}
	return &course, nil
}

// GetBySlug retrieves a course by its slug. Slugs are stored normalized, so
// the lookup normalizes the input the same way before matching.
func (r *courseRepo) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("slug = ?", models.NormalizeSlug(slug)).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course by slug: %w", err)
	}
	return &course, nil
}

// List retrieves courses ordered by sort_order ascending, then creation time
// descending. Passing an empty status returns every course.
func (r *courseRepo) List(ctx context.Context, status string) ([]*models.Course, error) {
	query := r.db.WithContext(ctx).Order("sort_order ASC, created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// Update updates an existing course.
func (r *courseRepo) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("updating course: %w", err)
	}
	return nil
}

// Delete hard-deletes a course by ID.
// Uses Unscoped to permanently remove the record so the unique slug
// constraint doesn't conflict when re-creating a course with the same slug.
func (r *courseRepo) Delete(ctx context.Context, id models.ULID) error {
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.Course{}).Error; err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

// Count returns the number of courses.
func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting courses: %w", err)
	}
	return count, nil
}

// Ensure courseRepo implements CourseRepository at compile time.
var _ CourseRepository = (*courseRepo)(nil)
