package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/bookingbot/backend/internal/models"
)

// Bot copy lives here so the flow logic stays declarative. Texts follow the
// reference widget's wording.

func msgGreetingNew() string {
	return "Hello! Let's get to know you a little bit. ✈️\n\nWhat's your first name?"
}

func msgGreetingReturning(firstName string) string {
	return fmt.Sprintf("Welcome back, %s! ✈️\n\nWhat type of trip are you planning?", firstName)
}

func msgRetrySearch(firstName string) string {
	return fmt.Sprintf("Let's try a different search, %s! ✈️\n\nWhat type of trip are you planning?", firstName)
}

func msgAskLastName(firstName string) string {
	return fmt.Sprintf("Nice to meet you, %s! 👋\n\nWhat's your last name?", firstName)
}

func msgAskEmail() string {
	return "Got it! Now, what's your email address?"
}

func msgAskPhone() string {
	return "Perfect! And finally, what's your phone number with country code? (e.g., +44 123 456 7890)"
}

func msgAskTripType() string {
	return "Thank you! Now let's find your perfect flight. ✈️\n\nWhat type of trip are you planning?"
}

func msgAskOrigin(tripType models.TripType, firstName string) string {
	return fmt.Sprintf("Great! %s trip. ✈️\n\nWhere are you flying from, %s?", tripTypeLabel(tripType), firstName)
}

func msgAskDestination(airport models.Airport, firstName string) string {
	return fmt.Sprintf("Perfect! %s (%s). ✈️\n\nWhere would you like to go, %s?", airport.Name, airport.Code, firstName)
}

func msgAskDepartureDate(airport models.Airport, firstName string) string {
	return fmt.Sprintf("Great! %s (%s). 🎯\n\nWhen do you want to travel, %s?", airport.Name, airport.Code, firstName)
}

func msgAskReturnDate(departure, firstName string) string {
	return fmt.Sprintf("Perfect! Departure date: %s. 📅\n\nWhen do you want to return, %s?", formatDisplayDate(departure), firstName)
}

func msgAskPassengers(date, firstName string) string {
	return fmt.Sprintf("Perfect! Travel date: %s. 📅\n\nHow many passengers, %s?", formatDisplayDate(date), firstName)
}

func msgAskPassengersAfterReturn(date, firstName string) string {
	return fmt.Sprintf("Perfect! Return date: %s. 📅\n\nHow many passengers, %s?", formatDisplayDate(date), firstName)
}

func msgSearching() string {
	return "Searching for the best flight options... 🔍"
}

func msgOffersFound() string {
	return "Great! I found some fantastic flight options for you. Here are 4 curated choices:"
}

func msgNoFlightsFound() string {
	return "No Flights Found. Please revise search criteria."
}

func msgSoftSearchWarning(detail string) string {
	return fmt.Sprintf("⚠️ %s\n\nPlease try adjusting your search criteria.", detail)
}

func msgFlightSelected(category, firstName string) string {
	if category == "" {
		category = "selected"
	}
	return fmt.Sprintf("Great choice, %s! You selected the %s option. Review your booking summary below! 📝", firstName, category)
}

func msgCreatingBooking() string {
	return "Creating your booking and processing payment... 💳"
}

func msgPaymentRedirect() string {
	return "Redirecting to PayPal for payment... 💳"
}

func msgSearchError(detail string) string {
	return fmt.Sprintf("Sorry, I encountered an error: %s\n\nPlease try again or contact support if the issue persists.", detail)
}

func msgBookingError(detail string) string {
	return fmt.Sprintf("Sorry, I encountered an error: %s\n\nPlease try again.", detail)
}

// Corrective prompts for rejected free-text input. The step does not change
// and no user echo is appended; the user simply retries.

func msgCorrectFirstName() string {
	return "Please enter your first name."
}

func msgCorrectLastName() string {
	return "Please enter your last name."
}

func msgCorrectEmail() string {
	return "Please enter a valid email address (e.g., john@example.com)"
}

func msgCorrectPhone() string {
	return "Please enter your phone number with country code (e.g., +44 123 456 7890)"
}

func msgCorrectTripType() string {
	return "Please select a trip type using the buttons above, or type 'one-way', 'round-trip', or 'multi-city'"
}

func msgCorrectAirport() string {
	return "I couldn't find that airport. Please use the search box above or try again with the airport code (e.g., LHR) or city name."
}

func msgCorrectDate() string {
	return "Please use the calendar widget above or enter a date in format: YYYY-MM-DD or '5th June 2026'"
}

func msgIdle() string {
	return "I'm ready to help you search for flights! Type 'start' to begin a new search."
}

func tripTypeLabel(t models.TripType) string {
	switch t {
	case models.TripOneWay:
		return "One-way"
	case models.TripRoundTrip:
		return "Round-trip"
	case models.TripMultiCity:
		return "Multi-city"
	default:
		return string(t)
	}
}

func passengerSummary(adults, children, infants int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d adult%s", adults, plural(adults))
	if children > 0 {
		fmt.Fprintf(&b, ", %d child%s", children, pluralChildren(children))
	}
	if infants > 0 {
		fmt.Fprintf(&b, ", %d infant%s", infants, plural(infants))
	}
	return b.String()
}

// msgSearchSummary is the human-readable recap shown just before the search
// fires: passenger breakdown, route and dates.
func msgSearchSummary(state models.ConversationState, firstName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Great! %s. 👥\n\n", passengerSummary(state.Adults, state.Children, state.Infants))
	b.WriteString("**Your Search Summary**\n\n")
	b.WriteString("**Passengers:**\n")
	fmt.Fprintf(&b, "  • %d Adult%s\n", state.Adults, plural(state.Adults))
	if state.Children > 0 {
		fmt.Fprintf(&b, "  • %d Child%s\n", state.Children, pluralChildren(state.Children))
	}
	if state.Infants > 0 {
		fmt.Fprintf(&b, "  • %d Infant%s\n", state.Infants, plural(state.Infants))
	}
	b.WriteString("\n**Flight Details:**\n")
	fmt.Fprintf(&b, "  • Trip Type: %s\n", tripTypeLabel(state.TripType))
	fmt.Fprintf(&b, "  • From: %s\n", state.Origin)
	fmt.Fprintf(&b, "  • To: %s\n", state.Destination)
	fmt.Fprintf(&b, "  • Departure: %s\n", formatDisplayDate(state.DepartureDate))
	if state.ReturnDate != "" {
		fmt.Fprintf(&b, "  • Return: %s\n", formatDisplayDate(state.ReturnDate))
	}
	fmt.Fprintf(&b, "\nSearching for flights now, %s...", firstName)

	return b.String()
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func pluralChildren(n int) string {
	if n > 1 {
		return "ren"
	}
	return ""
}

// formatDisplayDate renders an ISO date as "2 January 2026" for transcript
// messages; the raw value is passed through when it does not parse.
func formatDisplayDate(iso string) string {
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return d.Format("2 January 2006")
}
