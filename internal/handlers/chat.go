package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/bookingbot/backend/internal/models"
	"github.com/bookingbot/backend/internal/services"
)

// ChatHandler exposes the conversational booking widget over HTTP. Every
// endpoint returns the same reply shape: transcript, wizard state and any
// search result, so the UI can re-render from a single payload.
type ChatHandler struct {
	orchestrator *services.Orchestrator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator *services.Orchestrator) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

// OpenSession creates a fresh session ID and returns the initial state with
// the greeting already in the transcript.
func (h *ChatHandler) OpenSession(c *fiber.Ctx) error {
	sessionID := uuid.NewString()
	reply := h.orchestrator.Activate(sessionID)
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetSession returns the current state of an existing (or re-activated)
// session. The widget calls this on reopen to restore the transcript.
func (h *ChatHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}
	return c.JSON(h.orchestrator.Activate(sessionID))
}

// messageRequest is one user action from the widget. Kind selects which
// payload fields apply.
type messageRequest struct {
	Kind     string         `json:"kind"` // text, trip_type, airport, date, passengers, confirm_passengers
	Text     string         `json:"text"`
	TripType string         `json:"trip_type"`
	Airport  models.Airport `json:"airport"`
	Date     string         `json:"date"`
	Adults   int            `json:"adults"`
	Children int            `json:"children"`
	Infants  int            `json:"infants"`
}

func (r *messageRequest) toInput() (services.Input, bool) {
	switch r.Kind {
	case "", "text":
		return services.Input{Kind: services.InputFreeText, Text: r.Text}, true
	case "trip_type":
		return services.Input{Kind: services.InputTripType, TripType: models.TripType(r.TripType)}, true
	case "airport":
		return services.Input{Kind: services.InputAirport, Airport: r.Airport}, true
	case "date":
		return services.Input{Kind: services.InputDate, Date: r.Date}, true
	case "passengers":
		return services.Input{
			Kind:     services.InputPassengerAdjust,
			Adults:   r.Adults,
			Children: r.Children,
			Infants:  r.Infants,
		}, true
	case "confirm_passengers":
		return services.Input{Kind: services.InputPassengerConfirm}, true
	default:
		return services.Input{}, false
	}
}

// PostMessage applies one user action to the conversation.
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}

	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	in, ok := req.toInput()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown message kind: " + req.Kind,
		})
	}

	reply, err := h.orchestrator.HandleMessage(c.UserContext(), sessionID, in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}
	return c.JSON(reply)
}

// NewSearch resets the session for another search, keeping the traveler
// identity.
func (h *ChatHandler) NewSearch(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}
	return c.JSON(h.orchestrator.NewSearch(sessionID))
}

// SelectFlight records the offer the user picked from the results.
func (h *ChatHandler) SelectFlight(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}

	var offer models.FlightOffer
	if err := c.BodyParser(&offer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	reply, err := h.orchestrator.SelectFlight(sessionID, offer)
	if err != nil {
		return statusForError(c, err)
	}
	return c.JSON(reply)
}

// CancelSelection discards the selected offer and returns to the results.
func (h *ChatHandler) CancelSelection(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}

	reply, err := h.orchestrator.CancelSelection(sessionID)
	if err != nil {
		return statusForError(c, err)
	}
	return c.JSON(reply)
}
