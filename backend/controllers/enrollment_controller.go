package controllers

import (
	"errors"
	"strconv"

	"coursemarket/backend/middleware"
	"coursemarket/backend/models"
	"coursemarket/backend/storage"
	"coursemarket/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type EnrollmentController struct {
	Store *storage.Store
}

func NewEnrollmentController(store *storage.Store) *EnrollmentController {
	return &EnrollmentController{Store: store}
}

func (ec *EnrollmentController) GetEnrollments(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	enrollments, err := ec.Store.GetUserEnrollments(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(enrollments)
}

func (ec *EnrollmentController) CreateEnrollment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		CourseID uint `json:"courseId" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.Validate(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if _, err := ec.Store.GetCourseByID(input.CourseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	enrollment, err := ec.Store.EnrollUser(user.ID, input.CourseID)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyEnrolled) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Already enrolled in this course",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create enrollment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func (ec *EnrollmentController) UpdateProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var input struct {
		Progress float64 `json:"progress" validate:"gte=0,lte=100"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.Validate(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	enrollment, err := ec.Store.UpdateEnrollmentProgress(user.ID, uint(courseID), input.Progress)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Enrollment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update progress",
		})
	}

	return c.JSON(enrollment)
}

func (ec *EnrollmentController) UpdateLessonProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		LessonID  uint `json:"lessonId" validate:"required"`
		Completed bool `json:"completed"`
		WatchTime int  `json:"watchTime" validate:"gte=0"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if err := utils.Validate(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	progress, err := ec.Store.UpdateLessonProgress(&models.LessonProgress{
		UserID:    user.ID,
		LessonID:  input.LessonID,
		Completed: input.Completed,
		WatchTime: input.WatchTime,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save lesson progress",
		})
	}

	return c.JSON(progress)
}
