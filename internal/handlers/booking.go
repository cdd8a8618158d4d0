package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bookingbot/backend/internal/models"
	"github.com/bookingbot/backend/internal/services"
	"github.com/bookingbot/backend/internal/storage"
)

// BookingHandler handles booking creation, lookup and the payment redirect
// callbacks.
type BookingHandler struct {
	orchestrator *services.Orchestrator
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(orchestrator *services.Orchestrator) *BookingHandler {
	return &BookingHandler{orchestrator: orchestrator}
}

// CreateBooking books the session's selected flight and returns the payment
// approval URL the customer must be redirected to.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
		models.BookingForm
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}

	result, err := h.orchestrator.CreateBooking(c.UserContext(), req.SessionID, req.BookingForm)
	if err != nil {
		return statusForError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetBooking retrieves a booking by its reference.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Booking reference is required",
		})
	}

	booking, err := h.orchestrator.GetBooking(reference)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Booking not found",
		})
	}
	return c.JSON(booking)
}

// CapturePayment completes the booking once the customer approved the order.
// Called by the payment success landing page with the provider's order token.
func (h *BookingHandler) CapturePayment(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order ID is required",
		})
	}

	booking, err := h.orchestrator.CapturePayment(c.UserContext(), req.OrderID)
	if err != nil {
		return statusForError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Payment captured successfully",
		"booking": booking,
	})
}

// CancelPayment marks the booking cancelled when the customer abandons the
// payment flow.
func (h *BookingHandler) CancelPayment(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order ID is required",
		})
	}

	booking, err := h.orchestrator.CancelPayment(req.OrderID)
	if err != nil {
		return statusForError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Payment cancelled",
		"booking": booking,
	})
}

// statusForError maps service errors to HTTP statuses: local validation is a
// 400, missing records a 404, everything else a 502 from a collaborator or a
// plain 500.
func statusForError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Msg,
		})
	}
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Record not found",
		})
	}
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": services.CategorizeError(err),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
