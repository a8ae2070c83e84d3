package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/campusworks/campusgate/internal/models"
)

// uploadsMount is the URL prefix media paths are published under.
const uploadsMount = "/uploads/"

// uploadURL turns a stored relative media path into its public URL. Empty
// paths stay empty so optional media marshals away.
func uploadURL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return uploadsMount + strings.TrimPrefix(relativePath, "/")
}

// CourseStore is the query contract the course endpoints consume. The full
// repository satisfies it; handlers never need the write side.
type CourseStore interface {
	// List returns courses ordered for display. An empty status returns all.
	List(ctx context.Context, status string) ([]*models.Course, error)
	// GetBySlug returns the course with the given slug, or nil when absent.
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
}

// CoursesHandler handles the course catalogue endpoints.
type CoursesHandler struct {
	store CourseStore
}

// NewCoursesHandler creates a new courses handler.
func NewCoursesHandler(store CourseStore) *CoursesHandler {
	return &CoursesHandler{
		store: store,
	}
}

// Register registers the course routes with the API.
func (h *CoursesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listCourses",
		Method:      "GET",
		Path:        "/api/courses",
		Summary:     "List courses",
		Description: "Returns the course catalogue ordered for display, optionally filtered by status",
		Tags:        []string{"Courses"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getCourse",
		Method:      "GET",
		Path:        "/api/courses/{slug}",
		Summary:     "Get course",
		Description: "Returns a single course by its slug",
		Tags:        []string{"Courses"},
	}, h.GetBySlug)
}

// ListCoursesInput is the input for listing courses.
type ListCoursesInput struct {
	Status string `query:"status" enum:"available,coming-soon" required:"false" doc:"Filter by course status"`
}

// ListCoursesOutput is the output for listing courses.
type ListCoursesOutput struct {
	Body Envelope[CourseListData]
}

// List returns the course catalogue.
func (h *CoursesHandler) List(ctx context.Context, input *ListCoursesInput) (*ListCoursesOutput, error) {
	courses, err := h.store.List(ctx, input.Status)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list courses", err)
	}

	data := CourseListData{
		Courses: make([]CourseResponse, 0, len(courses)),
		Count:   len(courses),
	}
	for _, c := range courses {
		data.Courses = append(data.Courses, CourseFromModel(c))
	}

	return &ListCoursesOutput{Body: Wrap(data)}, nil
}

// GetCourseInput is the input for getting a course.
type GetCourseInput struct {
	Slug string `path:"slug" maxLength:"255" doc:"Course slug"`
}

// GetCourseOutput is the output for getting a course.
type GetCourseOutput struct {
	Body Envelope[CourseResponse]
}

// GetBySlug returns a single course by slug.
func (h *CoursesHandler) GetBySlug(ctx context.Context, input *GetCourseInput) (*GetCourseOutput, error) {
	course, err := h.store.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get course", err)
	}
	if course == nil {
		return nil, huma.Error404NotFound("course not found")
	}

	return &GetCourseOutput{Body: Wrap(CourseFromModel(course))}, nil
}
