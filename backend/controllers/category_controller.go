package controllers

import (
	"coursemarket/backend/models"
	"coursemarket/backend/storage"
	"coursemarket/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CategoryController struct {
	Store *storage.Store
}

func NewCategoryController(store *storage.Store) *CategoryController {
	return &CategoryController{Store: store}
}

func (cc *CategoryController) GetCategories(c *fiber.Ctx) error {
	categories, err := cc.Store.GetCategories()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	return c.JSON(categories)
}

func (cc *CategoryController) CreateCategory(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
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

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
		Icon:        input.Icon,
	}

	if err := cc.Store.CreateCategory(&category); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create category",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}
