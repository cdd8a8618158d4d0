package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/bookingbot/backend/internal/models"
)

// The conversation state machine is a reducer: Transition consumes one user
// action and returns the updated state plus the side effects to perform. No
// I/O happens here, which keeps the wizard testable without an HTTP harness;
// the session manager applies the effects.

// InputKind discriminates the user actions the wizard understands.
type InputKind int

const (
	// InputFreeText is typed chat input, parsed with the current step's
	// fallback extractor.
	InputFreeText InputKind = iota
	// InputTripType is a trip-type selector widget choice.
	InputTripType
	// InputAirport is an airport autocomplete selection (or a resolved
	// async lookup for free text).
	InputAirport
	// InputDate is a date-picker selection, ISO formatted.
	InputDate
	// InputPassengerAdjust updates the stepper counts without advancing.
	InputPassengerAdjust
	// InputPassengerConfirm is the stepper's confirm button: the terminal
	// forward transition that triggers the search.
	InputPassengerConfirm
)

// Input is one discrete user action delivered to the state machine.
type Input struct {
	Kind     InputKind
	Text     string
	TripType models.TripType
	Airport  models.Airport
	Date     string
	Adults   int
	Children int
	Infants  int
}

// EffectKind enumerates the side effects a transition can request.
type EffectKind int

const (
	// EffectUserMessage echoes the user's action into the transcript.
	EffectUserMessage EffectKind = iota
	// EffectBotMessage appends a bot reply.
	EffectBotMessage
	// EffectSaveIdentity persists the (now complete) traveler identity.
	EffectSaveIdentity
	// EffectAirportLookup asks the autocomplete collaborator to resolve a
	// free-text airport query; its result re-enters as an InputAirport or a
	// corrective bot message.
	EffectAirportLookup
	// EffectStartSearch fires the flight search after Delay (the delay only
	// lets the summary render before the loading indicator; zero is valid).
	EffectStartSearch
)

// Effect is one side effect requested by a transition.
type Effect struct {
	Kind  EffectKind
	Text  string
	Query string
	Delay time.Duration
}

func userEcho(text string) Effect { return Effect{Kind: EffectUserMessage, Text: text} }
func botSay(text string) Effect   { return Effect{Kind: EffectBotMessage, Text: text} }

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// InitialEffects produces the greeting for a freshly activated session. The
// initial branch is evaluated exactly once per activation: a complete stored
// identity skips the wizard straight to trip selection.
func InitialEffects(user models.UserInfo) []Effect {
	if user.Complete() {
		return []Effect{botSay(msgGreetingReturning(user.FirstName))}
	}
	return []Effect{botSay(msgGreetingNew())}
}

// Transition applies one user action. Every step-completing action performs,
// atomically: user echo, field update, next-step computation, and one bot
// message asking the next question. Rejected free text appends only a
// corrective bot message and leaves the step unchanged.
func Transition(state models.ConversationState, user models.UserInfo, in Input) (models.ConversationState, models.UserInfo, []Effect) {
	switch in.Kind {
	case InputFreeText:
		return transitionFreeText(state, user, strings.TrimSpace(in.Text))
	case InputTripType:
		return applyTripType(state, user, in.TripType)
	case InputAirport:
		return applyAirport(state, user, in.Airport)
	case InputDate:
		return applyDate(state, user, in.Date)
	case InputPassengerAdjust:
		state.SetPassengers(in.Adults, in.Children, in.Infants)
		return state, user, nil
	case InputPassengerConfirm:
		return applyPassengerConfirm(state, user)
	default:
		return state, user, nil
	}
}

func transitionFreeText(state models.ConversationState, user models.UserInfo, text string) (models.ConversationState, models.UserInfo, []Effect) {
	switch state.Step {
	case models.StepFirstName:
		if text == "" {
			return state, user, []Effect{botSay(msgCorrectFirstName())}
		}
		user.FirstName = text
		state.Step = models.StepLastName
		state.ShowInput = true
		return state, user, []Effect{userEcho(text), botSay(msgAskLastName(text))}

	case models.StepLastName:
		if text == "" {
			return state, user, []Effect{botSay(msgCorrectLastName())}
		}
		user.LastName = text
		state.Step = models.StepEmail
		state.ShowInput = true
		return state, user, []Effect{userEcho(text), botSay(msgAskEmail())}

	case models.StepEmail:
		if !emailRe.MatchString(text) {
			return state, user, []Effect{botSay(msgCorrectEmail())}
		}
		user.Email = text
		state.Step = models.StepPhone
		state.ShowInput = true
		return state, user, []Effect{userEcho(text), botSay(msgAskPhone())}

	case models.StepPhone:
		if text == "" {
			return state, user, []Effect{botSay(msgCorrectPhone())}
		}
		user.Phone = text
		state.Step = models.StepTripType
		state.ShowInput = false
		effects := []Effect{userEcho(text)}
		if user.Complete() {
			effects = append(effects, Effect{Kind: EffectSaveIdentity})
		}
		effects = append(effects, botSay(msgAskTripType()))
		return state, user, effects

	case models.StepTripType:
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "one") || strings.Contains(lower, "single"):
			return applyTripType(state, user, models.TripOneWay)
		case strings.Contains(lower, "round") || strings.Contains(lower, "return"):
			return applyTripType(state, user, models.TripRoundTrip)
		case strings.Contains(lower, "multi"):
			return applyTripType(state, user, models.TripMultiCity)
		default:
			return state, user, []Effect{botSay(msgCorrectTripType())}
		}

	case models.StepOrigin, models.StepDestination:
		if code := ExtractAirportCode(text); code != "" {
			return applyAirport(state, user, models.Airport{Code: code, Name: code})
		}
		// No bare code: hand the text to the async airport lookup. The
		// resolved airport re-enters as an InputAirport.
		return state, user, []Effect{{Kind: EffectAirportLookup, Query: text}}

	case models.StepDepartureDate, models.StepReturnDate:
		date := ExtractDate(text)
		if date == "" && isoDateRe.MatchString(text) {
			date = text
		}
		if date == "" {
			return state, user, []Effect{botSay(msgCorrectDate())}
		}
		return applyDate(state, user, date)

	case models.StepPassengers:
		counts := ExtractPassengers(text)
		state.SetPassengers(counts.Adults, counts.Children, counts.Infants)
		return applyPassengerConfirm(state, user)

	default:
		// search_summary / searching: no widget, free text gets an idle
		// reply after the raw echo.
		return state, user, []Effect{userEcho(text), botSay(msgIdle())}
	}
}

func applyTripType(state models.ConversationState, user models.UserInfo, t models.TripType) (models.ConversationState, models.UserInfo, []Effect) {
	if state.Step != models.StepTripType {
		return state, user, nil
	}
	state.TripType = t
	state.Step = models.StepOrigin
	state.ShowInput = false
	label := tripTypeLabel(t)
	return state, user, []Effect{
		userEcho(label),
		botSay(msgAskOrigin(t, user.FirstName)),
	}
}

func applyAirport(state models.ConversationState, user models.UserInfo, airport models.Airport) (models.ConversationState, models.UserInfo, []Effect) {
	echo := userEcho(airport.Name + " (" + airport.Code + ")")
	switch state.Step {
	case models.StepOrigin:
		state.Origin = airport.Code
		state.Step = models.StepDestination
		state.ShowInput = false
		return state, user, []Effect{echo, botSay(msgAskDestination(airport, user.FirstName))}
	case models.StepDestination:
		state.Destination = airport.Code
		state.Step = models.StepDepartureDate
		state.ShowInput = false
		return state, user, []Effect{echo, botSay(msgAskDepartureDate(airport, user.FirstName))}
	default:
		return state, user, nil
	}
}

func applyDate(state models.ConversationState, user models.UserInfo, date string) (models.ConversationState, models.UserInfo, []Effect) {
	echo := userEcho(formatDisplayDate(date))
	switch state.Step {
	case models.StepDepartureDate:
		state.DepartureDate = date
		state.ShowInput = false
		if state.TripType == models.TripRoundTrip {
			state.Step = models.StepReturnDate
			return state, user, []Effect{echo, botSay(msgAskReturnDate(date, user.FirstName))}
		}
		state.Step = models.StepPassengers
		return state, user, []Effect{echo, botSay(msgAskPassengers(date, user.FirstName))}
	case models.StepReturnDate:
		state.ReturnDate = date
		state.Step = models.StepPassengers
		state.ShowInput = false
		return state, user, []Effect{echo, botSay(msgAskPassengersAfterReturn(date, user.FirstName))}
	default:
		return state, user, nil
	}
}

// applyPassengerConfirm is the terminal forward transition: echo the
// passenger breakdown, emit the search summary, and schedule the search.
func applyPassengerConfirm(state models.ConversationState, user models.UserInfo) (models.ConversationState, models.UserInfo, []Effect) {
	if state.Step != models.StepPassengers {
		return state, user, nil
	}
	state.Step = models.StepSearchSummary
	state.ShowInput = false
	return state, user, []Effect{
		userEcho(passengerSummary(state.Adults, state.Children, state.Infants)),
		botSay(msgSearchSummary(state, user.FirstName)),
		{Kind: EffectStartSearch, Delay: SummaryDisplayDelay},
	}
}

// SummaryDisplayDelay is how long the search summary stays on screen before
// the search fires and the loading indicator replaces it. Purely cosmetic;
// zero is fine when the UI does not need it.
var SummaryDisplayDelay = 1500 * time.Millisecond
