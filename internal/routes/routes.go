package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookingbot/backend/internal/handlers"
	"github.com/bookingbot/backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, orchestrator *services.Orchestrator, flights services.FlightSearcher, sessions *services.SessionManager, dbCheck func() error) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Flight Booking Bot!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":   "/health",
				"chat":     "/api/chat",
				"airports": "/api/airports",
				"bookings": "/api/bookings",
			},
		})
	})

	healthHandler := handlers.NewHealthHandler(sessions, dbCheck)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")

	// Conversation routes
	chatHandler := handlers.NewChatHandler(orchestrator)
	chat := api.Group("/chat")
	chat.Post("/session", chatHandler.OpenSession)
	chat.Get("/:sessionID", chatHandler.GetSession)
	chat.Post("/:sessionID/message", chatHandler.PostMessage)
	chat.Post("/:sessionID/new-search", chatHandler.NewSearch)
	chat.Post("/:sessionID/select-flight", chatHandler.SelectFlight)
	chat.Post("/:sessionID/cancel-selection", chatHandler.CancelSelection)

	// Flight data routes
	flightsHandler := handlers.NewFlightsHandler(flights)
	api.Get("/airports", flightsHandler.SearchAirports)
	api.Post("/fare-rules", flightsHandler.FareRules)
	api.Post("/calendar-prices", flightsHandler.CalendarPrice)

	// Booking and payment routes
	bookingHandler := handlers.NewBookingHandler(orchestrator)
	bookings := api.Group("/bookings")
	bookings.Post("/", bookingHandler.CreateBooking)
	bookings.Get("/:reference", bookingHandler.GetBooking)

	payments := api.Group("/payments")
	payments.Post("/capture", bookingHandler.CapturePayment)
	payments.Post("/cancel", bookingHandler.CancelPayment)
}
