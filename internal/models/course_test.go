package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourse_TableName(t *testing.T) {
	c := Course{}
	assert.Equal(t, "courses", c.TableName())
}

func TestCourse_Available(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected bool
	}{
		{"available course", CourseStatusAvailable, true},
		{"coming soon course", CourseStatusComingSoon, false},
		{"empty status", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Course{Status: tt.status}
			assert.Equal(t, tt.expected, c.Available())
		})
	}
}

func TestCourse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		course  Course
		wantErr error
	}{
		{
			name: "valid available course",
			course: Course{
				Slug:   "intro-to-go",
				Title:  "Introduction to Go",
				Status: CourseStatusAvailable,
			},
			wantErr: nil,
		},
		{
			name: "valid coming soon course",
			course: Course{
				Slug:   "advanced-go",
				Title:  "Advanced Go",
				Status: CourseStatusComingSoon,
			},
			wantErr: nil,
		},
		{
			name: "missing slug",
			course: Course{
				Title:  "Introduction to Go",
				Status: CourseStatusAvailable,
			},
			wantErr: ErrSlugRequired,
		},
		{
			name: "missing title",
			course: Course{
				Slug:   "intro-to-go",
				Status: CourseStatusAvailable,
			},
			wantErr: ErrTitleRequired,
		},
		{
			name: "invalid status",
			course: Course{
				Slug:   "intro-to-go",
				Title:  "Introduction to Go",
				Status: "archived",
			},
			wantErr: ErrInvalidCourseStatus,
		},
		{
			name: "empty status",
			course: Course{
				Slug:  "intro-to-go",
				Title: "Introduction to Go",
			},
			wantErr: ErrInvalidCourseStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.course.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCourse_BeforeCreate(t *testing.T) {
	t.Run("generates ID and normalizes slug", func(t *testing.T) {
		c := &Course{
			Slug:   "  Intro-To-Go ",
			Title:  "Introduction to Go",
			Status: CourseStatusAvailable,
		}

		err := c.BeforeCreate(nil)
		require.NoError(t, err)
		assert.False(t, c.ID.IsZero())
		assert.Equal(t, "intro-to-go", c.Slug)
	})

	t.Run("rejects invalid course", func(t *testing.T) {
		c := &Course{
			Slug:   "intro-to-go",
			Status: CourseStatusAvailable,
		}

		err := c.BeforeCreate(nil)
		assert.ErrorIs(t, err, ErrTitleRequired)
	})
}

func TestCourse_BeforeUpdate(t *testing.T) {
	c := &Course{
		Slug:   "INTRO-TO-GO",
		Title:  "Introduction to Go",
		Status: CourseStatusComingSoon,
	}

	err := c.BeforeUpdate(nil)
	require.NoError(t, err)
	assert.Equal(t, "intro-to-go", c.Slug)
}

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "intro-to-go", "intro-to-go"},
		{"uppercase", "INTRO-TO-GO", "intro-to-go"},
		{"mixed case with whitespace", "  Intro-To-Go\t", "intro-to-go"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSlug(tt.input))
		})
	}
}
