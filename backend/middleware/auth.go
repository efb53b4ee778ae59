package middleware

import (
	"errors"

	"coursemarket/backend/config"
	"coursemarket/backend/models"
	"coursemarket/backend/session"
	"coursemarket/backend/storage"
	"coursemarket/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "currentUser"

// AuthMiddleware validates the bearer token, checks the session is still
// live in redis (logout revokes it), loads the user and stashes it in
// the request context for handlers and role gates.
func AuthMiddleware(store *storage.Store, cfg *config.Config, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, token, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		_, ok, err := sessions.Get(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not check session",
			})
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session expired",
			})
		}

		user, err := store.GetUser(userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Unauthorized",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not in the
// allowed set. Must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}
}

// CurrentUser returns the user stashed by AuthMiddleware, or nil on
// unauthenticated routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
