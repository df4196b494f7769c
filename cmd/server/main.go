package main

import (
	"log"
	"os"

	"distro-go/internal/config"
	"distro-go/internal/cron"
	"distro-go/internal/database"
	"distro-go/internal/lib/cloudinary"
	"distro-go/internal/lib/whatsapp"
	"distro-go/internal/middleware"
	"distro-go/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func init() {
	// Load .env file (ignore error in production)
	godotenv.Load()
}

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting %s...", cfg.App.Name)
	log.Printf("Environment: %s", cfg.App.Env)
	log.Printf("Port: %s", cfg.App.Port)
	log.Printf("Database Driver: %s", cfg.Database.Driver)

	// Initialize CDN (optional)
	if err := cloudinary.Init(); err != nil {
		log.Printf("Warning: Failed to initialize CDN: %v", err)
	}

	// Connect to database (non-fatal for health check to work)
	if _, err := database.Connect(&cfg.Database); err != nil {
		log.Printf("ERROR: Failed to connect to database: %v", err)
	} else {
		log.Printf("Database connected successfully")
	}

	// Initialize WhatsApp (optional)
	if cfg.WhatsApp.Enabled {
		if err := whatsapp.Init(); err != nil {
			log.Printf("Warning: Failed to initialize WhatsApp: %v", err)
		} else {
			log.Println("WhatsApp initialized. Use /api/v1/whatsapp/connect to connect.")
		}
	}

	// Start background jobs
	cron.Start()
	defer cron.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ServerHeader: cfg.App.Name,
		BodyLimit:    int(cfg.Upload.MaxFileSize),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.SetupCORS())

	// Setup routes
	routes.SetupRoutes(app)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"status":  404,
			"message": "Endpoint not found",
		})
	})

	// Use hosted-platform PORT when present
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}

	log.Printf("Server listening on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
