package controllers

import (
	"strconv"

	"coursemarket/backend/middleware"
	"coursemarket/backend/models"
	"coursemarket/backend/storage"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Store *storage.Store
}

func NewDashboardController(store *storage.Store) *DashboardController {
	return &DashboardController{Store: store}
}

// GetStats godoc
// @Summary Dashboard aggregates
// @Description Instructors get teaching aggregates, everyone else gets learner aggregates
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /dashboard/stats [get]
func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if user.Role == models.RoleInstructor {
		return dc.instructorStats(c, user)
	}
	return dc.studentStats(c, user)
}

func (dc *DashboardController) instructorStats(c *fiber.Ctx, user *models.User) error {
	teacherID := user.ID
	courses, err := dc.Store.GetCourses(storage.CourseFilter{TeacherID: &teacherID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	stats := models.InstructorStats{TotalCourses: len(courses)}
	var ratingSum float64
	for _, course := range courses {
		stats.TotalStudents += course.EnrollmentCount

		price, _ := strconv.ParseFloat(course.Price, 64)
		stats.TotalRevenue += price

		rating, _ := strconv.ParseFloat(course.Rating, 64)
		ratingSum += rating
	}
	if len(courses) > 0 {
		stats.AvgRating = ratingSum / float64(len(courses))
	}

	return c.JSON(stats)
}

func (dc *DashboardController) studentStats(c *fiber.Ctx, user *models.User) error {
	enrollments, err := dc.Store.GetUserEnrollments(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	stats := models.StudentStats{EnrolledCourses: len(enrollments)}
	for _, enrollment := range enrollments {
		progress, _ := strconv.ParseFloat(enrollment.Progress, 64)
		if progress >= 100 {
			stats.CompletedCourses++
		}
		stats.TotalHours += enrollment.Course.Duration
	}
	stats.InProgress = stats.EnrolledCourses - stats.CompletedCourses

	return c.JSON(stats)
}
