package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/bookingbot/backend/database"
	"github.com/bookingbot/backend/internal/jobs"
	"github.com/bookingbot/backend/internal/models"
	"github.com/bookingbot/backend/internal/routes"
	"github.com/bookingbot/backend/internal/services"
	"github.com/bookingbot/backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	// Initialize storage
	var store storage.Store
	var dbCheck func() error

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Booking{},
			&models.UserProfile{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		dbCheck = func() error {
			sqlDB, err := database.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		}
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Flight search collaborator
	flightClient, err := services.NewFlightAPIClient()
	if err != nil {
		log.Fatal("Failed to initialize flight API client:", err)
	}
	log.Println("✅ Flight API client initialized")

	// Payment collaborator
	var payments services.PaymentProvider
	paypalClient, err := services.NewPayPalClient()
	if err != nil {
		log.Fatal("Failed to initialize PayPal client:", err)
	}
	payments = paypalClient
	log.Println("✅ PayPal client initialized")

	// Confirmation notifier; Twilio is optional
	var notifier services.Notifier
	twilioNotifier, err := services.NewTwilioNotifier()
	if err != nil {
		log.Println("⚠️  Twilio not configured - booking confirmations will be log-only")
		notifier = services.NoopNotifier{}
	} else {
		notifier = twilioNotifier
		log.Println("✅ Twilio notifier initialized")
	}

	// Conversation engine
	sessionTTL := 30 * time.Minute
	sessionManager := services.NewSessionManager(store, sessionTTL)
	orchestrator := services.NewOrchestrator(
		sessionManager,
		flightClient,
		payments,
		store,
		notifier,
		os.Getenv("CURRENCY"),
		os.Getenv("PAYMENT_RETURN_URL"),
		os.Getenv("PAYMENT_CANCEL_URL"),
	)

	// Initialize and start cleanup jobs
	cleanupJob := jobs.NewCleanupJob(store, sessionManager, payments)
	cleanupJob.Start()

	log.Println("✅ All services initialized and scheduled jobs started")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Flight Booking Bot v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Setup routes
	routes.SetupRoutes(app, orchestrator, flightClient, sessionManager, dbCheck)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping cleanup jobs...")
		cleanupJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Flight Booking Bot starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("💳 Payments: PayPal (%s)", getPayPalMode())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getPayPalMode() string {
	if os.Getenv("PAYPAL_MODE") == "live" {
		return "live"
	}
	return "sandbox"
}
