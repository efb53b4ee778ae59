package main

import (
	"log"
	"time"

	"coursemarket/backend/config"
	"coursemarket/backend/middleware"
	"coursemarket/backend/payments"
	"coursemarket/backend/routes"
	"coursemarket/backend/session"
	"coursemarket/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Session store
	sessions := session.NewStore(cfg.RedisAddr, cfg.RedisPassword, time.Duration(cfg.SessionTTLHours)*time.Hour)

	// Payment provider
	var provider payments.Provider = payments.NewMemory()
	if cfg.StripeSecretKey != "" {
		provider = payments.NewStripeClient(cfg.StripeSecretKey)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, sessions, provider)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
