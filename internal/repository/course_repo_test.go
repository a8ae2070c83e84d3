package repository

import (
	"context"
	"testing"
	"time"

	"github.com/campusworks/campusgate/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCourseTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Course{})
	require.NoError(t, err)

	return db
}

func TestCourseRepo_Create(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course := &models.Course{
		Slug:   "intro-to-go",
		Title:  "Introduction to Go",
		Status: models.CourseStatusAvailable,
	}

	err := repo.Create(ctx, course)
	require.NoError(t, err)
	assert.False(t, course.ID.IsZero())
}

func TestCourseRepo_Create_DuplicateSlug(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course1 := &models.Course{
		Slug:   "duplicate",
		Title:  "First",
		Status: models.CourseStatusAvailable,
	}
	require.NoError(t, repo.Create(ctx, course1))

	course2 := &models.Course{
		Slug:   "duplicate",
		Title:  "Second",
		Status: models.CourseStatusComingSoon,
	}
	err := repo.Create(ctx, course2)
	assert.Error(t, err)
}

func TestCourseRepo_GetByID(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course := &models.Course{
		Slug:   "find-me",
		Title:  "Find Me",
		Status: models.CourseStatusAvailable,
	}
	require.NoError(t, repo.Create(ctx, course))

	t.Run("found", func(t *testing.T) {
		found, err := repo.GetByID(ctx, course.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Find Me", found.Title)
	})

	t.Run("not found", func(t *testing.T) {
		found, err := repo.GetByID(ctx, models.NewULID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestCourseRepo_GetBySlug(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course := &models.Course{
		Slug:    "distributed-systems",
		Title:   "Distributed Systems",
		Summary: "Consensus, replication and failure",
		Status:  models.CourseStatusAvailable,
	}
	require.NoError(t, repo.Create(ctx, course))

	t.Run("found", func(t *testing.T) {
		found, err := repo.GetBySlug(ctx, "distributed-systems")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, course.ID, found.ID)
	})

	t.Run("found with unnormalized slug", func(t *testing.T) {
		found, err := repo.GetBySlug(ctx, "  Distributed-Systems ")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, course.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		found, err := repo.GetBySlug(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestCourseRepo_List_Ordering(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Same sort_order resolves by creation time, newest first
	courses := []*models.Course{
		{
			BaseModel: models.BaseModel{CreatedAt: base},
			Slug:      "older-first-position",
			Title:     "Older at First Position",
			Status:    models.CourseStatusAvailable,
			SortOrder: 1,
		},
		{
			BaseModel: models.BaseModel{CreatedAt: base.Add(time.Hour)},
			Slug:      "newer-first-position",
			Title:     "Newer at First Position",
			Status:    models.CourseStatusAvailable,
			SortOrder: 1,
		},
		{
			BaseModel: models.BaseModel{CreatedAt: base},
			Slug:      "front-of-list",
			Title:     "Front of List",
			Status:    models.CourseStatusComingSoon,
			SortOrder: 0,
		},
	}
	for _, c := range courses {
		require.NoError(t, repo.Create(ctx, c))
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "front-of-list", all[0].Slug)
	assert.Equal(t, "newer-first-position", all[1].Slug)
	assert.Equal(t, "older-first-position", all[2].Slug)
}

func TestCourseRepo_List_StatusFilter(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Course{
		Slug:   "open-course",
		Title:  "Open Course",
		Status: models.CourseStatusAvailable,
	}))
	require.NoError(t, repo.Create(ctx, &models.Course{
		Slug:   "future-course",
		Title:  "Future Course",
		Status: models.CourseStatusComingSoon,
	}))

	t.Run("available only", func(t *testing.T) {
		found, err := repo.List(ctx, models.CourseStatusAvailable)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "open-course", found[0].Slug)
		assert.True(t, found[0].Available())
	})

	t.Run("coming soon only", func(t *testing.T) {
		found, err := repo.List(ctx, models.CourseStatusComingSoon)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "future-course", found[0].Slug)
		assert.False(t, found[0].Available())
	})

	t.Run("empty status returns all", func(t *testing.T) {
		found, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("unknown status returns none", func(t *testing.T) {
		found, err := repo.List(ctx, "archived")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestCourseRepo_Update(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course := &models.Course{
		Slug:   "original",
		Title:  "Original Title",
		Status: models.CourseStatusComingSoon,
	}
	require.NoError(t, repo.Create(ctx, course))

	course.Title = "Updated Title"
	course.Status = models.CourseStatusAvailable
	course.SortOrder = 5

	err := repo.Update(ctx, course)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Updated Title", found.Title)
	assert.Equal(t, models.CourseStatusAvailable, found.Status)
	assert.Equal(t, 5, found.SortOrder)
}

func TestCourseRepo_Delete_AllowsRecreateSameSlug(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	course := &models.Course{
		Slug:   "reusable-slug",
		Title:  "First Incarnation",
		Status: models.CourseStatusAvailable,
	}
	require.NoError(t, repo.Create(ctx, course))

	// Delete (hard delete with Unscoped)
	require.NoError(t, repo.Delete(ctx, course.ID))

	found, err := repo.GetBySlug(ctx, "reusable-slug")
	require.NoError(t, err)
	assert.Nil(t, found)

	// Re-create with same slug should succeed
	course2 := &models.Course{
		Slug:   "reusable-slug",
		Title:  "Second Incarnation",
		Status: models.CourseStatusComingSoon,
	}
	err = repo.Create(ctx, course2)
	require.NoError(t, err)
}

func TestCourseRepo_Count(t *testing.T) {
	db := setupCourseTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.Create(ctx, &models.Course{
		Slug:   "counted",
		Title:  "Counted",
		Status: models.CourseStatusAvailable,
	}))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
