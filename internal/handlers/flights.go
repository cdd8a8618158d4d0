package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/bookingbot/backend/internal/models"
	"github.com/bookingbot/backend/internal/services"
)

// FlightsHandler proxies the flight-data lookups the widget needs outside the
// conversation itself: airport autocomplete, fare rules and calendar prices.
type FlightsHandler struct {
	flights services.FlightSearcher
}

// NewFlightsHandler creates a new flights handler
func NewFlightsHandler(flights services.FlightSearcher) *FlightsHandler {
	return &FlightsHandler{flights: flights}
}

// SearchAirports answers the autocomplete widget. An empty query returns an
// empty list rather than an error.
func (h *FlightsHandler) SearchAirports(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.JSON(fiber.Map{"airports": []models.Airport{}})
	}

	airports, err := h.flights.SearchAirports(c.UserContext(), query)
	if err != nil {
		return statusForError(c, err)
	}
	return c.JSON(fiber.Map{
		"airports": airports,
		"count":    len(airports),
	})
}

// FareRules returns the change/refund/baggage breakdown for one offer. The
// provider's raw offer object is passed back verbatim.
func (h *FlightsHandler) FareRules(c *fiber.Ctx) error {
	var req struct {
		FlightOffer json.RawMessage `json:"flight_offer"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.FlightOffer) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Flight offer is required",
		})
	}

	rules, err := h.flights.FareRules(c.UserContext(), req.FlightOffer)
	if err != nil {
		return statusForError(c, err)
	}
	return c.JSON(rules)
}

// CalendarPrice returns the price for a single candidate date, used by the
// date picker's price hints.
func (h *FlightsHandler) CalendarPrice(c *fiber.Ctx) error {
	var req models.CalendarPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Origin == "" || req.Destination == "" || req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Origin, destination and date are required",
		})
	}

	price, err := h.flights.CalendarPrice(c.UserContext(), req)
	if err != nil {
		return statusForError(c, err)
	}
	return c.JSON(price)
}
