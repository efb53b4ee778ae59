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

type CoursesController struct {
	Store *storage.Store
}

func NewCoursesController(store *storage.Store) *CoursesController {
	return &CoursesController{Store: store}
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	var filter storage.CourseFilter

	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid category ID",
			})
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	filter.Search = c.Query("search")
	if raw := c.Query("teacherId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid teacher ID",
			})
		}
		teacherID := uint(id)
		filter.TeacherID = &teacherID
	}
	if raw := c.Query("published"); raw != "" {
		published := raw == "true"
		filter.Published = &published
	}

	courses, err := cc.Store.GetCourses(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(courses)
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	course, err := cc.Store.GetCourseWithRelations(uint(courseID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(course)
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		Title            string `json:"title" validate:"required"`
		Description      string `json:"description"`
		ShortDescription string `json:"shortDescription"`
		Price            string `json:"price" validate:"required,numeric"`
		CategoryID       *uint  `json:"categoryId"`
		ThumbnailURL     string `json:"thumbnailUrl"`
		VideoURL         string `json:"videoUrl"`
		Duration         int    `json:"duration" validate:"gte=0"`
		Level            string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
		Published        bool   `json:"published"`
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

	level := input.Level
	if level == "" {
		level = "beginner"
	}

	// The new course always belongs to the caller; a teacherId in the
	// body is ignored.
	course := models.Course{
		Title:            input.Title,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Price:            input.Price,
		CategoryID:       input.CategoryID,
		TeacherID:        user.ID,
		ThumbnailURL:     input.ThumbnailURL,
		VideoURL:         input.VideoURL,
		Duration:         input.Duration,
		Level:            level,
		Published:        input.Published,
		Rating:           "0",
	}

	if err := cc.Store.CreateCourse(&course); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	course, ok := cc.loadOwnedCourse(c, uint(courseID))
	if !ok {
		return nil
	}

	var input struct {
		Title            *string `json:"title"`
		Description      *string `json:"description"`
		ShortDescription *string `json:"shortDescription"`
		Price            *string `json:"price" validate:"omitempty,numeric"`
		CategoryID       *uint   `json:"categoryId"`
		ThumbnailURL     *string `json:"thumbnailUrl"`
		VideoURL         *string `json:"videoUrl"`
		Duration         *int    `json:"duration" validate:"omitempty,gte=0"`
		Level            *string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
		Published        *bool   `json:"published"`
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

	updated, err := cc.Store.UpdateCourse(course.ID, storage.CourseUpdate{
		Title:            input.Title,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Price:            input.Price,
		CategoryID:       input.CategoryID,
		ThumbnailURL:     input.ThumbnailURL,
		VideoURL:         input.VideoURL,
		Duration:         input.Duration,
		Level:            input.Level,
		Published:        input.Published,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(updated)
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	course, ok := cc.loadOwnedCourse(c, uint(courseID))
	if !ok {
		return nil
	}

	if err := cc.Store.DeleteCourse(course.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete course",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (cc *CoursesController) CreateSection(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	course, ok := cc.loadOwnedCourse(c, uint(courseID))
	if !ok {
		return nil
	}

	var input struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Order       int    `json:"order" validate:"gte=0"`
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

	section := models.CourseSection{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: input.Description,
		Order:       input.Order,
	}

	if err := cc.Store.CreateCourseSection(&section); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create section",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(section)
}

func (cc *CoursesController) UpdateSection(c *fiber.Ctx) error {
	section, ok := cc.loadOwnedSection(c)
	if !ok {
		return nil
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Order       *int    `json:"order" validate:"omitempty,gte=0"`
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

	updated, err := cc.Store.UpdateCourseSection(section.ID, storage.SectionUpdate{
		Title:       input.Title,
		Description: input.Description,
		Order:       input.Order,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update section",
		})
	}

	return c.JSON(updated)
}

func (cc *CoursesController) DeleteSection(c *fiber.Ctx) error {
	section, ok := cc.loadOwnedSection(c)
	if !ok {
		return nil
	}

	if err := cc.Store.DeleteCourseSection(section.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete section",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (cc *CoursesController) CreateLesson(c *fiber.Ctx) error {
	section, ok := cc.loadOwnedSection(c)
	if !ok {
		return nil
	}

	var input struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		VideoURL    string `json:"videoUrl"`
		Duration    int    `json:"duration" validate:"gte=0"`
		Order       int    `json:"order" validate:"gte=0"`
		IsFree      bool   `json:"isFree"`
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

	lesson := models.Lesson{
		SectionID:   section.ID,
		Title:       input.Title,
		Description: input.Description,
		VideoURL:    input.VideoURL,
		Duration:    input.Duration,
		Order:       input.Order,
		IsFree:      input.IsFree,
	}

	if err := cc.Store.CreateLesson(&lesson); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lesson",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(lesson)
}

func (cc *CoursesController) UpdateLesson(c *fiber.Ctx) error {
	lesson, ok := cc.loadOwnedLesson(c)
	if !ok {
		return nil
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		VideoURL    *string `json:"videoUrl"`
		Duration    *int    `json:"duration" validate:"omitempty,gte=0"`
		Order       *int    `json:"order" validate:"omitempty,gte=0"`
		IsFree      *bool   `json:"isFree"`
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

	updated, err := cc.Store.UpdateLesson(lesson.ID, storage.LessonUpdate{
		Title:       input.Title,
		Description: input.Description,
		VideoURL:    input.VideoURL,
		Duration:    input.Duration,
		Order:       input.Order,
		IsFree:      input.IsFree,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update lesson",
		})
	}

	return c.JSON(updated)
}

func (cc *CoursesController) DeleteLesson(c *fiber.Ctx) error {
	lesson, ok := cc.loadOwnedLesson(c)
	if !ok {
		return nil
	}

	if err := cc.Store.DeleteLesson(lesson.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete lesson",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetCourseEnrollments lists a course's students for its teacher.
func (cc *CoursesController) GetCourseEnrollments(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	course, ok := cc.loadOwnedCourse(c, uint(courseID))
	if !ok {
		return nil
	}

	enrollments, err := cc.Store.GetCourseEnrollments(course.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(enrollments)
}

// loadOwnedCourse fetches the course and enforces the owner-or-admin
// rule. On failure it has already written the response and returns
// ok=false.
func (cc *CoursesController) loadOwnedCourse(c *fiber.Ctx, courseID uint) (*models.Course, bool) {
	user := middleware.CurrentUser(c)

	course, err := cc.Store.GetCourseByID(courseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		} else {
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}
		return nil, false
	}

	if course.TeacherID != user.ID && user.Role != models.RoleAdmin {
		c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to modify this course",
		})
		return nil, false
	}

	return course, true
}

func (cc *CoursesController) loadOwnedSection(c *fiber.Ctx) (*models.CourseSection, bool) {
	sectionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid section ID",
		})
		return nil, false
	}

	section, err := cc.Store.GetCourseSectionByID(uint(sectionID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Section not found",
			})
		} else {
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}
		return nil, false
	}

	if _, ok := cc.loadOwnedCourse(c, section.CourseID); !ok {
		return nil, false
	}
	return section, true
}

func (cc *CoursesController) loadOwnedLesson(c *fiber.Ctx) (*models.Lesson, bool) {
	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
		return nil, false
	}

	lesson, err := cc.Store.GetLessonByID(uint(lessonID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lesson not found",
			})
		} else {
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}
		return nil, false
	}

	section, err := cc.Store.GetCourseSectionByID(lesson.SectionID)
	if err != nil {
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
		return nil, false
	}

	if _, ok := cc.loadOwnedCourse(c, section.CourseID); !ok {
		return nil, false
	}
	return lesson, true
}
