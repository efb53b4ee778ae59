package routes_test

import (
	"fmt"
	"testing"

	"coursemarket/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postReview(t *testing.T, token string, courseID uint, rating int, comment string) models.Review {
	t.Helper()

	resp := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/reviews", courseID), map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var review models.Review
	decode(t, resp, &review)
	return review
}

func courseDetail(t *testing.T, courseID uint) models.CourseWithRelations {
	t.Helper()

	resp := doRequest(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail models.CourseWithRelations
	decode(t, resp, &detail)
	return detail
}

func TestReviewAggregate(t *testing.T) {
	_, teacherToken := registerUser(t, "review-teacher", models.RoleInstructor)
	_, firstToken := registerUser(t, "reviewer-one", "")
	_, secondToken := registerUser(t, "reviewer-two", "")
	_, thirdToken := registerUser(t, "reviewer-three", "")

	course := createCourse(t, teacherToken, nil)
	assert.Equal(t, float64(0), progressValue(t, course.Rating))

	postReview(t, firstToken, course.ID, 4, "Solid")
	postReview(t, secondToken, course.ID, 4, "Good")

	detail := courseDetail(t, course.ID)
	assert.Equal(t, float64(4), progressValue(t, detail.Rating))
	assert.Equal(t, 2, detail.ReviewCount)

	postReview(t, thirdToken, course.ID, 5, "Great")

	detail = courseDetail(t, course.ID)
	assert.InDelta(t, 4.33, progressValue(t, detail.Rating), 0.001)
	assert.Equal(t, 3, detail.ReviewCount)
	require.Len(t, detail.Reviews, 3)
}

func TestReviewValidation(t *testing.T) {
	_, teacherToken := registerUser(t, "rv-teacher", models.RoleInstructor)
	_, studentToken := registerUser(t, "rv-student", "")
	course := createCourse(t, teacherToken, nil)

	resp := doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/reviews", course.ID), map[string]interface{}{
		"rating": 6,
	}, studentToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, "POST", "/api/courses/999999/reviews", map[string]interface{}{
		"rating": 5,
	}, studentToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Anonymous users cannot review
	resp = doRequest(t, "POST", fmt.Sprintf("/api/courses/%d/reviews", course.ID), map[string]interface{}{
		"rating": 5,
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestListCourseReviews(t *testing.T) {
	_, teacherToken := registerUser(t, "list-review-teacher", models.RoleInstructor)
	reviewerID, reviewerToken := registerUser(t, "list-reviewer", "")
	course := createCourse(t, teacherToken, nil)

	postReview(t, reviewerToken, course.ID, 5, "Loved it")

	resp := doRequest(t, "GET", fmt.Sprintf("/api/courses/%d/reviews", course.ID), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reviews []models.ReviewWithUser
	decode(t, resp, &reviews)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Loved it", reviews[0].Comment)
	assert.Equal(t, reviewerID, reviews[0].User.ID)
	assert.Empty(t, reviews[0].User.Password)
}

func TestDashboardStats(t *testing.T) {
	_, teacherToken := registerUser(t, "stats-teacher", models.RoleInstructor)
	_, studentToken := registerUser(t, "stats-student", "")

	cheap := createCourse(t, teacherToken, map[string]interface{}{
		"title":    "Stats Cheap",
		"price":    "10.00",
		"duration": 120,
	})
	createCourse(t, teacherToken, map[string]interface{}{
		"title": "Stats Pricey",
		"price": "20.00",
	})

	resp := doRequest(t, "POST", "/api/enrollments", map[string]uint{"courseId": cheap.ID}, studentToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doRequest(t, "PUT", fmt.Sprintf("/api/enrollments/%d/progress", cheap.ID),
		map[string]float64{"progress": 100}, studentToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/dashboard/stats", nil, teacherToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var instructor models.InstructorStats
	decode(t, resp, &instructor)
	assert.Equal(t, 2, instructor.TotalCourses)
	assert.Equal(t, 1, instructor.TotalStudents)
	assert.InDelta(t, 30.0, instructor.TotalRevenue, 0.001)

	resp = doRequest(t, "GET", "/api/dashboard/stats", nil, studentToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var student models.StudentStats
	decode(t, resp, &student)
	assert.Equal(t, 1, student.EnrolledCourses)
	assert.Equal(t, 1, student.CompletedCourses)
	assert.Equal(t, 0, student.InProgress)
	assert.Equal(t, 120, student.TotalHours)
}
