package routes

import (
	"coursemarket/backend/config"
	"coursemarket/backend/controllers"
	"coursemarket/backend/middleware"
	"coursemarket/backend/models"
	"coursemarket/backend/payments"
	"coursemarket/backend/session"
	"coursemarket/backend/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, sessions *session.Store, provider payments.Provider) {
	store := storage.NewStore(db)

	authRequired := middleware.AuthMiddleware(store, cfg, sessions)
	teacherOnly := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Auth routes
	authController := controllers.NewAuthController(store, cfg, sessions)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/logout", authRequired, authController.Logout)
	app.Get("/api/auth/user", authRequired, authController.GetCurrentUser)
	app.Put("/api/auth/role", authRequired, authController.UpdateRole)

	// Category routes
	categoryController := controllers.NewCategoryController(store)
	app.Get("/api/categories", categoryController.GetCategories)
	app.Post("/api/categories", authRequired, adminOnly, categoryController.CreateCategory)

	// Course routes
	coursesController := controllers.NewCoursesController(store)
	app.Get("/api/courses", coursesController.GetCourses)
	app.Get("/api/courses/:id", coursesController.GetCourse)
	app.Post("/api/courses", authRequired, teacherOnly, coursesController.CreateCourse)
	app.Put("/api/courses/:id", authRequired, coursesController.UpdateCourse)
	app.Delete("/api/courses/:id", authRequired, coursesController.DeleteCourse)
	app.Get("/api/courses/:id/enrollments", authRequired, coursesController.GetCourseEnrollments)

	// Curriculum routes (course owner or admin)
	app.Post("/api/courses/:id/sections", authRequired, coursesController.CreateSection)
	app.Put("/api/sections/:id", authRequired, coursesController.UpdateSection)
	app.Delete("/api/sections/:id", authRequired, coursesController.DeleteSection)
	app.Post("/api/sections/:id/lessons", authRequired, coursesController.CreateLesson)
	app.Put("/api/lessons/:id", authRequired, coursesController.UpdateLesson)
	app.Delete("/api/lessons/:id", authRequired, coursesController.DeleteLesson)

	// Enrollment and progress routes
	enrollmentController := controllers.NewEnrollmentController(store)
	app.Get("/api/enrollments", authRequired, enrollmentController.GetEnrollments)
	app.Post("/api/enrollments", authRequired, enrollmentController.CreateEnrollment)
	app.Put("/api/enrollments/:courseId/progress", authRequired, enrollmentController.UpdateProgress)
	app.Post("/api/lesson-progress", authRequired, enrollmentController.UpdateLessonProgress)

	// Review routes
	reviewController := controllers.NewReviewController(store)
	app.Get("/api/courses/:id/reviews", reviewController.GetCourseReviews)
	app.Post("/api/courses/:id/reviews", authRequired, reviewController.CreateReview)

	// Dashboard routes
	dashboardController := controllers.NewDashboardController(store)
	app.Get("/api/dashboard/stats", authRequired, dashboardController.GetStats)

	// Payment routes
	paymentController := controllers.NewPaymentController(store, provider)
	app.Post("/api/create-payment-intent", authRequired, paymentController.CreatePaymentIntent)
}
