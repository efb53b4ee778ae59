// Package client is a typed API client for the course marketplace
// backend. Reads go through a query cache keyed per resource
// collection; mutations invalidate the collections they touch.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coursemarket/backend/models"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	cache   *Cache
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   NewCache(),
	}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type RegisterRequest struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"firstName,omitempty"`
	LastName  string      `json:"lastName,omitempty"`
	Role      models.Role `json:"role,omitempty"`
}

// CourseQuery mirrors the /api/courses filter parameters.
type CourseQuery struct {
	CategoryID *uint
	Search     string
	TeacherID  *uint
	Published  *bool
}

func (q CourseQuery) encode() string {
	values := url.Values{}
	if q.CategoryID != nil {
		values.Set("categoryId", strconv.FormatUint(uint64(*q.CategoryID), 10))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.TeacherID != nil {
		values.Set("teacherId", strconv.FormatUint(uint64(*q.TeacherID), 10))
	}
	if q.Published != nil {
		values.Set("published", strconv.FormatBool(*q.Published))
	}
	return values.Encode()
}

type CourseRequest struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	ShortDescription *string `json:"shortDescription,omitempty"`
	Price            *string `json:"price,omitempty"`
	CategoryID       *uint   `json:"categoryId,omitempty"`
	ThumbnailURL     *string `json:"thumbnailUrl,omitempty"`
	VideoURL         *string `json:"videoUrl,omitempty"`
	Duration         *int    `json:"duration,omitempty"`
	Level            *string `json:"level,omitempty"`
	Published        *bool   `json:"published,omitempty"`
}

// Auth

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	c.cache.Clear()
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	c.cache.Clear()
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	c.cache.Clear()
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) SelectRole(ctx context.Context, role models.Role) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/auth/role", map[string]models.Role{"role": role}, &user); err != nil {
		return nil, err
	}
	c.cache.Invalidate("dashboard")
	return &user, nil
}

// Categories

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.getCached(ctx, "/api/categories", "categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name, description, icon string) (*models.Category, error) {
	body := map[string]string{"name": name, "description": description, "icon": icon}
	var category models.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", body, &category); err != nil {
		return nil, err
	}
	c.cache.Invalidate("categories")
	return &category, nil
}

// Courses

func (c *Client) Courses(ctx context.Context, query CourseQuery) ([]models.Course, error) {
	path := "/api/courses"
	if encoded := query.encode(); encoded != "" {
		path += "?" + encoded
	}
	var courses []models.Course
	if err := c.getCached(ctx, path, "courses?"+query.encode(), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Course(ctx context.Context, id uint) (*models.CourseWithRelations, error) {
	var course models.CourseWithRelations
	key := courseKey(id)
	if err := c.getCached(ctx, fmt.Sprintf("/api/courses/%d", id), key, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) CreateCourse(ctx context.Context, req CourseRequest) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPost, "/api/courses", req, &course); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("courses")
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id uint, req CourseRequest) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/courses/%d", id), req, &course); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix("courses")
	c.cache.Invalidate(courseKey(id))
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id uint) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/courses/%d", id), nil, nil); err != nil {
		return err
	}
	c.cache.InvalidatePrefix("courses")
	c.cache.Invalidate(courseKey(id))
	return nil
}

// Enrollments and progress

func (c *Client) Enrollments(ctx context.Context) ([]models.EnrollmentWithCourse, error) {
	var enrollments []models.EnrollmentWithCourse
	if err := c.getCached(ctx, "/api/enrollments", "enrollments", &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (c *Client) Enroll(ctx context.Context, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := c.do(ctx, http.MethodPost, "/api/enrollments", map[string]uint{"courseId": courseID}, &enrollment); err != nil {
		return nil, err
	}
	c.cache.Invalidate("enrollments", "dashboard", courseKey(courseID))
	c.cache.InvalidatePrefix("courses")
	return &enrollment, nil
}

func (c *Client) UpdateProgress(ctx context.Context, courseID uint, progress float64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	path := fmt.Sprintf("/api/enrollments/%d/progress", courseID)
	if err := c.do(ctx, http.MethodPut, path, map[string]float64{"progress": progress}, &enrollment); err != nil {
		return nil, err
	}
	c.cache.Invalidate("enrollments", "dashboard")
	return &enrollment, nil
}

func (c *Client) UpdateLessonProgress(ctx context.Context, lessonID uint, completed bool, watchTime int) (*models.LessonProgress, error) {
	body := map[string]interface{}{
		"lessonId":  lessonID,
		"completed": completed,
		"watchTime": watchTime,
	}
	var progress models.LessonProgress
	if err := c.do(ctx, http.MethodPost, "/api/lesson-progress", body, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// Reviews

func (c *Client) CourseReviews(ctx context.Context, courseID uint) ([]models.ReviewWithUser, error) {
	var reviews []models.ReviewWithUser
	path := fmt.Sprintf("/api/courses/%d/reviews", courseID)
	if err := c.getCached(ctx, path, reviewsKey(courseID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, courseID uint, rating int, comment string) (*models.Review, error) {
	body := map[string]interface{}{"rating": rating, "comment": comment}
	var review models.Review
	path := fmt.Sprintf("/api/courses/%d/reviews", courseID)
	if err := c.do(ctx, http.MethodPost, path, body, &review); err != nil {
		return nil, err
	}
	c.cache.Invalidate(reviewsKey(courseID), courseKey(courseID))
	c.cache.InvalidatePrefix("courses")
	return &review, nil
}

// Dashboard

func (c *Client) InstructorStats(ctx context.Context) (*models.InstructorStats, error) {
	var stats models.InstructorStats
	if err := c.getCached(ctx, "/api/dashboard/stats", "dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) StudentStats(ctx context.Context) (*models.StudentStats, error) {
	var stats models.StudentStats
	if err := c.getCached(ctx, "/api/dashboard/stats", "dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Payments

func (c *Client) CreatePaymentIntent(ctx context.Context, amount float64, courseID uint) (string, error) {
	body := map[string]interface{}{"amount": amount}
	if courseID != 0 {
		body["courseId"] = courseID
	}
	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/create-payment-intent", body, &resp); err != nil {
		return "", err
	}
	return resp.ClientSecret, nil
}

func courseKey(id uint) string {
	return fmt.Sprintf("course:%d", id)
}

func reviewsKey(id uint) string {
	return fmt.Sprintf("course:%d:reviews", id)
}

// getCached serves a GET from the cache when possible, otherwise
// fetches and stores the raw body under the key.
func (c *Client) getCached(ctx context.Context, path, key string, out interface{}) error {
	if data, ok := c.cache.Get(key); ok {
		return json.Unmarshal(data, out)
	}

	data, err := c.raw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	c.cache.Set(key, data)
	return json.Unmarshal(data, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	data, err := c.raw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) raw(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var decoded struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &decoded); err == nil && decoded.Error != "" {
			apiErr.Message = decoded.Error
		}
		return nil, apiErr
	}

	return data, nil
}
