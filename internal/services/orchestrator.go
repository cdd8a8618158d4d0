package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bookingbot/backend/internal/models"
	"github.com/bookingbot/backend/internal/storage"
)

// ValidationError is a local precondition failure. Nothing was dispatched to
// any collaborator; handlers map it to a 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ChatReply is the orchestrator's answer to one chat event: the transcript as
// it stands, the wizard state the UI renders widgets from, and the latest
// search result when one is available.
type ChatReply struct {
	SessionID string                     `json:"session_id"`
	Messages  []models.Message           `json:"messages"`
	State     models.ConversationState   `json:"state"`
	User      models.UserInfo            `json:"user"`
	Result    *models.FlightSearchResult `json:"result,omitempty"`
	Selected  *models.FlightOffer        `json:"selected_flight,omitempty"`
}

// Orchestrator wires the conversation state machine to its collaborators:
// flight search, payment, persistence and notification. It owns the effect
// loop; the state machine itself never performs I/O.
type Orchestrator struct {
	sessions *SessionManager
	flights  FlightSearcher
	payments PaymentProvider
	store    storage.Store
	notifier Notifier

	currency  string
	returnURL string
	cancelURL string

	// SearchDelay overrides the transition's summary-display delay before a
	// search fires. Negative keeps the transition's value; zero fires
	// immediately (tests).
	SearchDelay time.Duration
}

// NewOrchestrator builds the orchestrator. currency applies to every search
// and booking; returnURL/cancelURL are the payment redirect targets.
func NewOrchestrator(sessions *SessionManager, flights FlightSearcher, payments PaymentProvider, store storage.Store, notifier Notifier, currency, returnURL, cancelURL string) *Orchestrator {
	if currency == "" {
		currency = "GBP"
	}
	return &Orchestrator{
		sessions:    sessions,
		flights:     flights,
		payments:    payments,
		store:       store,
		notifier:    notifier,
		currency:    currency,
		returnURL:   returnURL,
		cancelURL:   cancelURL,
		SearchDelay: -1,
	}
}

// Activate ensures the session exists and returns its current snapshot. This
// backs the widget's open event: the greeting is produced here on first
// contact and never repeated.
func (o *Orchestrator) Activate(sessionID string) *ChatReply {
	sess := o.sessions.Activate(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return o.snapshot(sess)
}

// NewSearch resets the session for a fresh search, keeping the traveler
// identity.
func (o *Orchestrator) NewSearch(sessionID string) *ChatReply {
	sess := o.sessions.NewSearch(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return o.snapshot(sess)
}

// HandleMessage applies one user action to the session's state machine and
// performs the resulting effects. While a search or booking is in flight the
// event is dropped whole: no echo, no transition.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, in Input) (*ChatReply, error) {
	sess := o.sessions.Activate(sessionID)

	sess.mu.Lock()
	if sess.State.Loading {
		defer sess.mu.Unlock()
		return o.snapshot(sess), nil
	}

	state, user, effects := Transition(sess.State, sess.User, in)
	sess.State = state
	sess.User = user

	var lookupQuery string
	var startSearch bool
	var searchDelay time.Duration

	for _, effect := range effects {
		switch effect.Kind {
		case EffectUserMessage:
			sess.Log.Append(models.SpeakerUser, effect.Text)
		case EffectBotMessage:
			sess.Log.Append(models.SpeakerBot, effect.Text)
		case EffectSaveIdentity:
			if err := o.store.SaveUserInfo(sess.ID, sess.User); err != nil {
				log.Printf("❌ Failed to save user info for session %s: %v", sess.ID, err)
			}
		case EffectAirportLookup:
			lookupQuery = effect.Query
		case EffectStartSearch:
			startSearch = true
			searchDelay = effect.Delay
			if o.SearchDelay >= 0 {
				searchDelay = o.SearchDelay
			}
		}
	}
	sess.mu.Unlock()

	if lookupQuery != "" {
		o.resolveAirport(ctx, sess, lookupQuery)
	}
	if startSearch {
		if searchDelay > 0 {
			time.Sleep(searchDelay)
		}
		o.runSearch(ctx, sess)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return o.snapshot(sess), nil
}

// resolveAirport runs the free-text airport lookup and feeds the result back
// into the state machine as an airport selection. The lookup goes through the
// session's debouncer so a superseding query marks this one stale; a stale
// result is discarded without touching the conversation.
func (o *Orchestrator) resolveAirport(ctx context.Context, sess *ChatSession, query string) {
	done := make(chan struct{})
	var airports []models.Airport
	var lookupErr error
	stale := false

	sess.lookup.Trigger(func(gen uint64) {
		defer close(done)
		// A superseded trigger is released immediately with a stale
		// generation; skip the lookup entirely.
		if !sess.lookup.Current(gen) {
			stale = true
			return
		}
		airports, lookupErr = o.flights.SearchAirports(ctx, query)
		if !sess.lookup.Current(gen) {
			stale = true
		}
	})
	<-done

	if stale {
		log.Printf("Airport lookup for %q superseded, discarding", query)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if lookupErr != nil || len(airports) == 0 {
		if lookupErr != nil {
			log.Printf("❌ Airport lookup failed for %q: %v", query, lookupErr)
		}
		// Rejected input: corrective prompt only, no user echo.
		sess.Log.Append(models.SpeakerBot, msgCorrectAirport())
		return
	}

	state, user, effects := Transition(sess.State, sess.User, Input{
		Kind:    InputAirport,
		Airport: airports[0],
	})
	sess.State = state
	sess.User = user
	for _, effect := range effects {
		switch effect.Kind {
		case EffectUserMessage:
			sess.Log.Append(models.SpeakerUser, effect.Text)
		case EffectBotMessage:
			sess.Log.Append(models.SpeakerBot, effect.Text)
		}
	}
}

// runSearch dispatches the flight search and folds the outcome into the
// conversation. Exactly one search is authoritative at a time; the loading
// flag is cleared on every path.
func (o *Orchestrator) runSearch(ctx context.Context, sess *ChatSession) {
	sess.mu.Lock()
	if sess.State.Loading {
		sess.mu.Unlock()
		return
	}
	sess.State.Loading = true
	sess.searchGen++
	gen := sess.searchGen
	req := models.SearchRequestFromState(sess.State, o.currency)
	sess.Log.Append(models.SpeakerBot, msgSearching())
	firstName := sess.User.FirstName
	sess.mu.Unlock()

	log.Printf("🔍 Searching flights %s → %s on %s for session %s",
		req.Origin, req.Destination, req.DepartureDate, sess.ID)
	result, err := o.flights.SearchFlights(ctx, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if gen != sess.searchGen {
		// A newer search owns the session; this response is stale.
		return
	}
	sess.State.Loading = false

	if err != nil {
		log.Printf("❌ Flight search failed for session %s: %v", sess.ID, err)
		sess.Log.Append(models.SpeakerBot, msgSearchError(CategorizeError(err)))
		return
	}

	if isNoFlightsMessage(result.Message) {
		sess.Log.Append(models.SpeakerBot, msgNoFlightsFound())
		o.resetSearchLocked(sess, firstName)
		return
	}

	if !result.HasOffers() {
		detail := result.Message
		if detail == "" {
			detail = "The search returned no usable offers."
		}
		sess.Log.Append(models.SpeakerBot, msgSoftSearchWarning(detail))
		o.resetSearchLocked(sess, firstName)
		return
	}

	sess.LastResult = result
	sess.State.Step = models.StepSearching
	sess.Log.Append(models.SpeakerBot, msgOffersFound())
	log.Printf("✅ Search complete for session %s: %d offers", sess.ID, len(result.AllFlights))
}

// resetSearchLocked rewinds the wizard for another attempt after an empty
// result. Identity survives; search fields and results do not. Caller holds
// the session lock.
func (o *Orchestrator) resetSearchLocked(sess *ChatSession, firstName string) {
	sess.LastResult = nil
	sess.SelectedFlight = nil
	sess.State = models.NewConversationState(sess.User.Complete())
	if sess.User.Complete() {
		sess.Log.Append(models.SpeakerBot, msgRetrySearch(firstName))
	} else {
		sess.Log.Append(models.SpeakerBot, msgGreetingNew())
	}
}

// isNoFlightsMessage detects the collaborator's soft empty-result signal.
func isNoFlightsMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "no flights found")
}

// SelectFlight records the user's chosen offer. The offer must carry both
// endpoint airports; anything less is rejected before it can poison the
// booking flow.
func (o *Orchestrator) SelectFlight(sessionID string, offer models.FlightOffer) (*ChatReply, error) {
	sess, err := o.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if offer.DepartureAirport == "" || offer.ArrivalAirport == "" {
		return nil, &ValidationError{Msg: "selected flight is missing airport details"}
	}

	sess.SelectedFlight = &offer
	sess.Log.Append(models.SpeakerBot, msgFlightSelected(categoryLabel(offer.Category), sess.User.FirstName))
	log.Printf("Session %s selected flight %s (%s)", sessionID, offer.ID, offer.Category)
	return o.snapshot(sess), nil
}

// CancelSelection discards the selected offer and returns to the results.
// Cancellation is not an error and changes nothing else.
func (o *Orchestrator) CancelSelection(sessionID string) (*ChatReply, error) {
	sess, err := o.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.SelectedFlight = nil
	return o.snapshot(sess), nil
}

// ServiceFeeRate is added on top of the offer price at booking time.
const ServiceFeeRate = 0.05

// CreateBooking validates the customer form, persists the booking and creates
// the payment order. Validation failures never reach the network. On success
// the selected flight is discarded; the session has handed off to payment.
func (o *Orchestrator) CreateBooking(ctx context.Context, sessionID string, form models.BookingForm) (*models.BookingResult, error) {
	sess, err := o.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.SelectedFlight == nil {
		sess.mu.Unlock()
		return nil, &ValidationError{Msg: "Please select a flight first."}
	}
	if strings.TrimSpace(form.CustomerEmail) == "" || strings.TrimSpace(form.CustomerName) == "" {
		sess.mu.Unlock()
		return nil, &ValidationError{Msg: "Please fill in your name and email before booking."}
	}
	if sess.State.Loading {
		sess.mu.Unlock()
		return nil, &ValidationError{Msg: "A booking is already in progress."}
	}

	offer := *sess.SelectedFlight
	state := sess.State
	sess.State.Loading = true
	sess.Log.Append(models.SpeakerBot, msgCreatingBooking())
	sess.mu.Unlock()

	base := offer.Price
	fee := base * ServiceFeeRate
	booking := &models.Booking{
		BookingReference: storage.NewBookingReference(),
		FlightID:         offer.ID,
		CustomerEmail:    strings.TrimSpace(form.CustomerEmail),
		CustomerName:     strings.TrimSpace(form.CustomerName),
		CustomerPhone:    strings.TrimSpace(form.CustomerPhone),
		Origin:           offer.DepartureAirport,
		Destination:      offer.ArrivalAirport,
		DepartureDate:    state.DepartureDate,
		DepartureTime:    offer.DepartureTime,
		ArrivalTime:      offer.ArrivalTime,
		Airline:          offer.Airline,
		CabinClass:       offer.CabinClass,
		Duration:         offer.Duration,
		Stops:            offer.Stops,
		Adults:           state.Adults,
		Children:         state.Children,
		Infants:          state.Infants,
		BasePrice:        base,
		ServiceFee:       fee,
		TotalPrice:       base + fee,
		Currency:         o.currency,
		PaymentStatus:    models.PaymentStatusPending,
		FlightData:       string(offer.RawOffer),
	}

	if _, err := o.store.CreateBooking(booking); err != nil {
		o.failBooking(sess, fmt.Errorf("failed to save booking: %w", err))
		return nil, err
	}

	orderID, approvalURL, err := o.payments.CreateOrder(ctx, booking, o.returnURL, o.cancelURL)
	if err != nil {
		booking.PaymentStatus = models.PaymentStatusFailed
		if updateErr := o.store.UpdateBooking(booking); updateErr != nil {
			log.Printf("❌ Failed to mark booking %s failed: %v", booking.BookingReference, updateErr)
		}
		o.failBooking(sess, err)
		return nil, err
	}

	booking.PaymentOrderID = orderID
	if err := o.store.UpdateBooking(booking); err != nil {
		log.Printf("❌ Failed to attach order %s to booking %s: %v", orderID, booking.BookingReference, err)
	}

	sess.mu.Lock()
	sess.State.Loading = false
	sess.SelectedFlight = nil
	sess.Log.Append(models.SpeakerBot, msgPaymentRedirect())
	sess.mu.Unlock()

	log.Printf("✅ Booking %s created, payment order %s", booking.BookingReference, orderID)
	return &models.BookingResult{
		BookingReference: booking.BookingReference,
		ApprovalURL:      approvalURL,
	}, nil
}

// failBooking surfaces a booking failure into the transcript and clears the
// loading flag. The selected flight stays so the user can retry.
func (o *Orchestrator) failBooking(sess *ChatSession, err error) {
	log.Printf("❌ Booking failed for session %s: %v", sess.ID, err)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.State.Loading = false
	sess.Log.Append(models.SpeakerBot, msgBookingError(CategorizeError(err)))
}

// CapturePayment completes a booking after the customer approved the payment
// order. The confirmation notification is best effort; its failure does not
// undo the capture.
func (o *Orchestrator) CapturePayment(ctx context.Context, orderID string) (*models.Booking, error) {
	booking, err := o.store.GetBookingByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	status, err := o.payments.CaptureOrder(ctx, orderID)
	if err != nil {
		booking.PaymentStatus = models.PaymentStatusFailed
		if updateErr := o.store.UpdateBooking(booking); updateErr != nil {
			log.Printf("❌ Failed to mark booking %s failed: %v", booking.BookingReference, updateErr)
		}
		return nil, err
	}
	if status != "COMPLETED" {
		return nil, fmt.Errorf("payment capture for order %s returned status %s", orderID, status)
	}

	now := time.Now()
	booking.PaymentStatus = models.PaymentStatusCaptured
	booking.PaidAt = &now
	if err := o.store.UpdateBooking(booking); err != nil {
		return nil, fmt.Errorf("payment captured but booking update failed: %w", err)
	}

	if err := o.notifier.SendBookingConfirmation(booking); err != nil {
		log.Printf("❌ Confirmation notification failed for %s: %v", booking.BookingReference, err)
	}

	log.Printf("✅ Payment captured for booking %s", booking.BookingReference)
	return booking, nil
}

// CancelPayment marks the booking cancelled when the customer abandons the
// payment flow.
func (o *Orchestrator) CancelPayment(orderID string) (*models.Booking, error) {
	booking, err := o.store.GetBookingByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	booking.PaymentStatus = models.PaymentStatusCancelled
	if err := o.store.UpdateBooking(booking); err != nil {
		return nil, err
	}
	log.Printf("Payment cancelled for booking %s", booking.BookingReference)
	return booking, nil
}

// GetBooking looks a booking up by its reference.
func (o *Orchestrator) GetBooking(reference string) (*models.Booking, error) {
	return o.store.GetBooking(reference)
}

// snapshot builds the reply payload. Caller holds the session lock.
func (o *Orchestrator) snapshot(sess *ChatSession) *ChatReply {
	return &ChatReply{
		SessionID: sess.ID,
		Messages:  sess.Log.Messages(),
		State:     sess.State,
		User:      sess.User,
		Result:    sess.LastResult,
		Selected:  sess.SelectedFlight,
	}
}

func categoryLabel(category string) string {
	switch category {
	case "cheapest":
		return "Cheapest"
	case "fastest":
		return "Fastest"
	case "most_comfortable":
		return "Most Comfortable"
	case "best_future_deal":
		return "Best Future Deal"
	default:
		return category
	}
}
