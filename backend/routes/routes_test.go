package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"coursemarket/backend/config"
	"coursemarket/backend/models"
	"coursemarket/backend/payments"
	"coursemarket/backend/routes"
	"coursemarket/backend/session"
	"coursemarket/backend/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	sessions *session.Store
	provider *payments.Memory
	redis    *miniredis.Miniredis
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	dir, err := os.MkdirTemp("", "coursemarket-test")
	if err != nil {
		panic(err)
	}

	db, err = gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}
	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	redis, err = miniredis.Run()
	if err != nil {
		panic(err)
	}

	cfg = &config.Config{
		JWTSecret:       "testsecret",
		ServerPort:      "8080",
		SessionTTLHours: 1,
	}
	sessions = session.NewStore(redis.Addr(), "", time.Hour)
	provider = payments.NewMemory()

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg, sessions, provider)
}

func teardown() {
	redis.Close()
}

func doRequest(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerUser creates an account through the API and returns its id
// and session token.
func registerUser(t *testing.T, username string, role models.Role) (uint, string) {
	t.Helper()

	body := map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}
	if role != "" {
		body["role"] = role
	}

	resp := doRequest(t, "POST", "/api/auth/register", body, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, resp, &result)
	require.NotEmpty(t, result.Token)
	return result.User.ID, result.Token
}

// makeAdmin flips a user's role directly; admin cannot be chosen at
// registration.
func makeAdmin(t *testing.T, userID uint) {
	t.Helper()
	err := db.Model(&models.User{}).Where("id = ?", userID).Update("role", models.RoleAdmin).Error
	require.NoError(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	_, token := registerUser(t, "alice", "")
	assert.NotEmpty(t, token)

	// Duplicate username rejected
	resp := doRequest(t, "POST", "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice2@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decode(t, resp, &result)
	assert.NotEmpty(t, result["token"])
	assert.NotEmpty(t, result["user"])

	resp = doRequest(t, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrongpass",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	resp := doRequest(t, "POST", "/api/auth/register", map[string]string{
		"username": "bob",
		"email":    "not-an-email",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	decode(t, resp, &result)
	assert.NotEmpty(t, result["error"])
}

func TestLogoutRevokesSession(t *testing.T) {
	_, token := registerUser(t, "logout-user", "")

	resp := doRequest(t, "GET", "/api/auth/user", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "POST", "/api/auth/logout", nil, token)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// The JWT is still valid but the session is gone
	resp = doRequest(t, "GET", "/api/auth/user", nil, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleSelection(t *testing.T) {
	_, token := registerUser(t, "role-picker", "")

	resp := doRequest(t, "PUT", "/api/auth/role", map[string]string{"role": "instructor"}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	decode(t, resp, &user)
	assert.Equal(t, models.RoleInstructor, user.Role)

	// Admin cannot be self-granted
	resp = doRequest(t, "PUT", "/api/auth/role", map[string]string{"role": "admin"}, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCategoryCreationRequiresAdmin(t *testing.T) {
	_, studentToken := registerUser(t, "cat-student", "")
	adminID, adminToken := registerUser(t, "cat-admin", "")
	makeAdmin(t, adminID)

	// Unauthenticated
	resp := doRequest(t, "POST", "/api/categories", map[string]string{"name": "Design"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Authenticated but not admin
	resp = doRequest(t, "POST", "/api/categories", map[string]string{"name": "Design"}, studentToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, "POST", "/api/categories", map[string]interface{}{
		"name": "Programming",
		"icon": "code",
	}, adminToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var category models.Category
	decode(t, resp, &category)
	assert.Equal(t, "Programming", category.Name)

	// Listing is public
	resp = doRequest(t, "GET", "/api/categories", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var categories []models.Category
	decode(t, resp, &categories)
	found := false
	for _, item := range categories {
		if item.ID == category.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCreatePaymentIntent(t *testing.T) {
	_, token := registerUser(t, "payer", "")

	resp := doRequest(t, "POST", "/api/create-payment-intent", map[string]interface{}{
		"amount":   49.99,
		"courseId": 1,
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	decode(t, resp, &result)
	assert.Contains(t, result["clientSecret"], "pi_")

	// Zero amount fails validation
	resp = doRequest(t, "POST", "/api/create-payment-intent", map[string]interface{}{
		"amount": 0,
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// createCourse is shared by the course and enrollment tests.
func createCourse(t *testing.T, token string, fields map[string]interface{}) models.Course {
	t.Helper()

	body := map[string]interface{}{
		"title": fmt.Sprintf("Course %d", time.Now().UnixNano()),
		"price": "49.99",
	}
	for key, value := range fields {
		body[key] = value
	}

	resp := doRequest(t, "POST", "/api/courses", body, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var course models.Course
	decode(t, resp, &course)
	return course
}
