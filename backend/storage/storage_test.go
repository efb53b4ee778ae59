package storage

import (
	"path/filepath"
	"testing"

	"coursemarket/backend/models"
	"coursemarket/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "storage_test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	return NewStore(db)
}

func seedUser(t *testing.T, store *Store, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, store.CreateUser(user))
	return user
}

func seedCourse(t *testing.T, store *Store, teacherID uint, title string) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:     title,
		Price:     "49.99",
		TeacherID: teacherID,
		Level:     "beginner",
		Rating:    "0",
	}
	require.NoError(t, store.CreateCourse(course))
	return course
}

func TestGetUserNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetUser(42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseFilters(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "teacher", models.RoleInstructor)
	other := seedUser(t, store, "other", models.RoleInstructor)

	react := seedCourse(t, store, teacher.ID, "React Fundamentals")
	golang := seedCourse(t, store, teacher.ID, "Go Patterns")
	seedCourse(t, store, other.ID, "Unrelated")

	published := true
	require.NoError(t, store.DB.Model(react).Update("published", true).Error)

	courses, err := store.GetCourses(CourseFilter{Search: "REACT"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, react.ID, courses[0].ID)

	courses, err = store.GetCourses(CourseFilter{TeacherID: &teacher.ID})
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	courses, err = store.GetCourses(CourseFilter{TeacherID: &teacher.ID, Published: &published})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, react.ID, courses[0].ID)

	notPublished := false
	courses, err = store.GetCourses(CourseFilter{TeacherID: &teacher.ID, Published: &notPublished})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, golang.ID, courses[0].ID)
}

func TestUpdateCoursePartial(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "partial-teacher", models.RoleInstructor)
	course := seedCourse(t, store, teacher.ID, "Original")

	title := "Changed"
	updated, err := store.UpdateCourse(course.ID, CourseUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Title)

	// Untouched fields survive
	assert.Equal(t, "49.99", updated.Price)
	assert.Equal(t, "beginner", updated.Level)
}

func TestGetCourseWithRelations(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "relations-teacher", models.RoleInstructor)

	category := &models.Category{Name: "Programming"}
	require.NoError(t, store.CreateCategory(category))

	course := seedCourse(t, store, teacher.ID, "Full Course")
	require.NoError(t, store.DB.Model(course).Update("category_id", category.ID).Error)

	second := &models.CourseSection{CourseID: course.ID, Title: "Second", Order: 2}
	first := &models.CourseSection{CourseID: course.ID, Title: "First", Order: 1}
	require.NoError(t, store.CreateCourseSection(second))
	require.NoError(t, store.CreateCourseSection(first))

	require.NoError(t, store.CreateLesson(&models.Lesson{SectionID: first.ID, Title: "B", Order: 2}))
	require.NoError(t, store.CreateLesson(&models.Lesson{SectionID: first.ID, Title: "A", Order: 1}))

	detail, err := store.GetCourseWithRelations(course.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.Category)
	assert.Equal(t, "Programming", detail.Category.Name)
	assert.Equal(t, teacher.ID, detail.Teacher.ID)

	require.Len(t, detail.Sections, 2)
	assert.Equal(t, "First", detail.Sections[0].Title)
	assert.Equal(t, "Second", detail.Sections[1].Title)

	require.Len(t, detail.Sections[0].Lessons, 2)
	assert.Equal(t, "A", detail.Sections[0].Lessons[0].Title)
	assert.Equal(t, "B", detail.Sections[0].Lessons[1].Title)

	_, err = store.GetCourseWithRelations(999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnrollUserDuplicate(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "dup-teacher", models.RoleInstructor)
	student := seedUser(t, store, "dup-student", models.RoleStudent)
	course := seedCourse(t, store, teacher.ID, "Dup Course")

	enrollment, err := store.EnrollUser(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", enrollment.Progress)

	_, err = store.EnrollUser(student.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	// The counter reflects the single successful enrollment
	reloaded, err := store.GetCourseByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.EnrollmentCount)
}

func TestUpdateEnrollmentProgress(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "progress-teacher", models.RoleInstructor)
	student := seedUser(t, store, "progress-student", models.RoleStudent)
	course := seedCourse(t, store, teacher.ID, "Progress Course")

	_, err := store.UpdateEnrollmentProgress(student.ID, course.ID, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.EnrollUser(student.ID, course.ID)
	require.NoError(t, err)

	enrollment, err := store.UpdateEnrollmentProgress(student.ID, course.ID, 100)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	require.NotNil(t, enrollment.LastAccessedAt)
	completedAt := *enrollment.CompletedAt

	enrollment, err = store.UpdateEnrollmentProgress(student.ID, course.ID, 40)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, completedAt.Unix(), enrollment.CompletedAt.Unix())
}

func TestUpdateLessonProgressUpsert(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "lp-teacher", models.RoleInstructor)
	student := seedUser(t, store, "lp-student", models.RoleStudent)
	course := seedCourse(t, store, teacher.ID, "LP Course")

	section := &models.CourseSection{CourseID: course.ID, Title: "S", Order: 1}
	require.NoError(t, store.CreateCourseSection(section))
	lesson := &models.Lesson{SectionID: section.ID, Title: "L", Order: 1}
	require.NoError(t, store.CreateLesson(lesson))

	first, err := store.UpdateLessonProgress(&models.LessonProgress{
		UserID:    student.ID,
		LessonID:  lesson.ID,
		WatchTime: 30,
	})
	require.NoError(t, err)
	assert.False(t, first.Completed)
	assert.Nil(t, first.CompletedAt)

	second, err := store.UpdateLessonProgress(&models.LessonProgress{
		UserID:    student.ID,
		LessonID:  lesson.ID,
		Completed: true,
		WatchTime: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Completed)
	assert.Equal(t, 90, second.WatchTime)
	assert.NotNil(t, second.CompletedAt)

	var count int64
	require.NoError(t, store.DB.Model(&models.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", student.ID, lesson.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateReviewAggregates(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "agg-teacher", models.RoleInstructor)
	course := seedCourse(t, store, teacher.ID, "Agg Course")

	reviewers := []*models.User{
		seedUser(t, store, "agg-one", models.RoleStudent),
		seedUser(t, store, "agg-two", models.RoleStudent),
		seedUser(t, store, "agg-three", models.RoleStudent),
	}

	for i, rating := range []int{4, 4, 5} {
		err := store.CreateReview(&models.Review{
			CourseID: course.ID,
			UserID:   reviewers[i].ID,
			Rating:   rating,
		})
		require.NoError(t, err)
	}

	reloaded, err := store.GetCourseByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.ReviewCount)
	assert.Equal(t, "4.33", reloaded.Rating)

	reviews, err := store.GetCourseReviews(course.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)

	err = store.CreateReview(&models.Review{CourseID: 999999, UserID: reviewers[0].ID, Rating: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCourseLeavesOrphanedEnrollment(t *testing.T) {
	store := newTestStore(t)
	teacher := seedUser(t, store, "orphan-teacher", models.RoleInstructor)
	student := seedUser(t, store, "orphan-student", models.RoleStudent)
	course := seedCourse(t, store, teacher.ID, "Orphan Course")

	_, err := store.EnrollUser(student.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, store.DeleteCourse(course.ID))

	// Listings skip enrollments whose course is gone
	enrollments, err := store.GetUserEnrollments(student.ID)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
}

func TestUpdateUserStripeInfo(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "stripe-user", models.RoleStudent)

	updated, err := store.UpdateUserStripeInfo(user.ID, "cus_123", "sub_456")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", updated.StripeCustomerID)
	assert.Equal(t, "sub_456", updated.StripeSubscriptionID)

	_, err = store.UpdateUserStripeInfo(999999, "cus_x", "sub_x")
	assert.ErrorIs(t, err, ErrNotFound)
}
