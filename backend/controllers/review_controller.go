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

type ReviewController struct {
	Store *storage.Store
}

func NewReviewController(store *storage.Store) *ReviewController {
	return &ReviewController{Store: store}
}

func (rc *ReviewController) GetCourseReviews(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	reviews, err := rc.Store.GetCourseReviews(uint(courseID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(reviews)
}

// CreateReview accepts a review from any authenticated user. Enrollment
// in the course is not required.
func (rc *ReviewController) CreateReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var input struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment"`
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

	review := models.Review{
		UserID:   user.ID,
		CourseID: uint(courseID),
		Rating:   input.Rating,
		Comment:  input.Comment,
	}

	if err := rc.Store.CreateReview(&review); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}
