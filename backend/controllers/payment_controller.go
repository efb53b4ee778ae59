package controllers

import (
	"math"
	"strconv"

	"coursemarket/backend/middleware"
	"coursemarket/backend/payments"
	"coursemarket/backend/storage"
	"coursemarket/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	Store    *storage.Store
	Provider payments.Provider
}

func NewPaymentController(store *storage.Store, provider payments.Provider) *PaymentController {
	return &PaymentController{Store: store, Provider: provider}
}

// CreatePaymentIntent opens a payment with the provider and returns the
// client secret the UI needs to confirm it. Amount arrives in currency
// units and is converted to cents for the provider.
func (pc *PaymentController) CreatePaymentIntent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		Amount   float64 `json:"amount" validate:"required,gt=0"`
		CourseID uint    `json:"courseId"`
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

	metadata := map[string]string{
		"userId": strconv.FormatUint(uint64(user.ID), 10),
	}
	if input.CourseID != 0 {
		metadata["courseId"] = strconv.FormatUint(uint64(input.CourseID), 10)
	}

	intent, err := pc.Provider.CreatePaymentIntent(
		c.UserContext(),
		int64(math.Round(input.Amount*100)),
		"usd",
		metadata,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"clientSecret": intent.ClientSecret,
	})
}
