package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"coursemarket/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		userID, raw, err := ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"userId": userID, "raw": raw})
	})
	return app
}

func TestGenerateAndExtractToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", SessionTTLHours: 1}

	token, err := GenerateJWTToken(42, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	app := newTokenApp(cfg)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		UserID uint   `json:"userId"`
		Raw    string `json:"raw"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, uint(42), result.UserID)

	// The raw token doubles as the session key; the Bearer prefix must
	// be stripped before lookup.
	assert.Equal(t, token, result.Raw)
}

func TestExtractTokenMissingHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret", SessionTTLHours: 1}
	app := newTokenApp(cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestExtractTokenWrongSecret(t *testing.T) {
	otherCfg := &config.Config{JWTSecret: "othersecret", SessionTTLHours: 1}
	token, err := GenerateJWTToken(42, otherCfg)
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: "testsecret", SessionTTLHours: 1}
	app := newTokenApp(cfg)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
