package models

import "encoding/json"

// Airport is one result from the airport autocomplete collaborator.
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// FlightOffer is a single priced itinerary returned by the search
// collaborator. RawOffer carries the provider's original offer object so it
// can be passed back verbatim for fare-rules lookups and booking creation.
type FlightOffer struct {
	ID               string          `json:"id"`
	Category         string          `json:"category,omitempty"` // cheapest, fastest, most_comfortable, best_future_deal
	DepartureAirport string          `json:"departure_airport"`
	ArrivalAirport   string          `json:"arrival_airport"`
	DepartureTime    string          `json:"departure_time"`
	ArrivalTime      string          `json:"arrival_time"`
	Airline          string          `json:"airline"`
	CabinClass       string          `json:"cabin_class"`
	Duration         string          `json:"duration"`
	Stops            int             `json:"stops"`
	Price            float64         `json:"price"`
	Currency         string          `json:"currency"`
	RawOffer         json.RawMessage `json:"raw_offer,omitempty"`
}

// FlightSearchRequest carries the search-relevant portion of the
// conversation state to the flight-search collaborator.
type FlightSearchRequest struct {
	Origin            string   `json:"origin"`
	Destination       string   `json:"destination"`
	DepartureDate     string   `json:"departure_date"`
	ReturnDate        string   `json:"return_date,omitempty"`
	Adults            int      `json:"adults"`
	Children          int      `json:"children"`
	Infants           int      `json:"infants"`
	TravelClass       string   `json:"travel_class"`
	Currency          string   `json:"currency"`
	TripType          TripType `json:"trip_type,omitempty"`
	DirectOnly        bool     `json:"direct_only"`
	MaxStops          *int     `json:"max_stops,omitempty"`
	PreferredAirlines []string `json:"preferred_airlines,omitempty"`
	ExcludedAirlines  []string `json:"excluded_airlines,omitempty"`
	Flexibility       int      `json:"flexibility"`
}

// SearchRequestFromState builds the outbound search request from a completed
// conversation state.
func SearchRequestFromState(state ConversationState, currency string) FlightSearchRequest {
	return FlightSearchRequest{
		Origin:            state.Origin,
		Destination:       state.Destination,
		DepartureDate:     state.DepartureDate,
		ReturnDate:        state.ReturnDate,
		Adults:            state.Adults,
		Children:          state.Children,
		Infants:           state.Infants,
		TravelClass:       state.TravelClass,
		Currency:          currency,
		TripType:          state.TripType,
		DirectOnly:        state.DirectOnly,
		MaxStops:          state.MaxStops,
		PreferredAirlines: state.PreferredAirlines,
		ExcludedAirlines:  state.ExcludedAirlines,
		Flexibility:       state.Flexibility,
	}
}

// FlightSearchResult is the categorized offer set from the collaborator.
// A non-empty Message is the soft-failure signal: when it contains
// "no flights found" (case-insensitive) the search completed but matched
// nothing, which is a normal outcome rather than an error.
type FlightSearchResult struct {
	Cheapest        *FlightOffer  `json:"cheapest,omitempty"`
	Fastest         *FlightOffer  `json:"fastest,omitempty"`
	MostComfortable *FlightOffer  `json:"most_comfortable,omitempty"`
	BestFutureDeal  *FlightOffer  `json:"best_future_deal,omitempty"`
	AllFlights      []FlightOffer `json:"all_flights,omitempty"`
	Message         string        `json:"message,omitempty"`
}

// HasOffers reports whether at least one categorized offer came back.
func (r *FlightSearchResult) HasOffers() bool {
	return r.Cheapest != nil || r.Fastest != nil || r.MostComfortable != nil || len(r.AllFlights) > 0
}

// FareRules is the change/refund/baggage breakdown for one offer. Each
// section may be empty when the provider returns nothing for it.
type FareRules struct {
	ChangeRules []string `json:"change_rules"`
	RefundRules []string `json:"refund_rules"`
	Baggage     []string `json:"baggage"`
	Penalties   []string `json:"penalties"`
}

// CalendarPriceRequest asks the collaborator for the price of a single date.
type CalendarPriceRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"departure_date"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	TravelClass string `json:"travel_class"`
	Currency    string `json:"currency"`
}

// CalendarPrice is the answer for one calendar date. Available is false when
// the provider has no price for that date.
type CalendarPrice struct {
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Available bool    `json:"available"`
}
