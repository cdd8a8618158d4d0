package models

// Step is the current position in the guided conversation. It determines
// which widget the UI should present and which free-text fallback parser
// applies when the user types instead of using the widget.
type Step string

const (
	StepFirstName     Step = "first_name"
	StepLastName      Step = "last_name"
	StepEmail         Step = "email"
	StepPhone         Step = "phone"
	StepTripType      Step = "trip_type"
	StepOrigin        Step = "origin"
	StepDestination   Step = "destination"
	StepDepartureDate Step = "departure_date"
	StepReturnDate    Step = "return_date"
	StepPassengers    Step = "passengers"
	StepSearchSummary Step = "search_summary"
	StepSearching     Step = "searching"
)

// TripType values
type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
	TripMultiCity TripType = "multi-city"
)

// Travel class constants (cabin)
const (
	ClassEconomy        = "ECONOMY"
	ClassPremiumEconomy = "PREMIUM_ECONOMY"
	ClassBusiness       = "BUSINESS"
	ClassFirst          = "FIRST"
)

// ConversationState is the single mutable record driving the booking wizard.
// Step fully determines which fields are read next; fields for future steps
// stay at their defaults until their step is reached.
type ConversationState struct {
	Step              Step     `json:"step"`
	Origin            string   `json:"origin,omitempty"`
	Destination       string   `json:"destination,omitempty"`
	DepartureDate     string   `json:"departure_date,omitempty"`
	ReturnDate        string   `json:"return_date,omitempty"`
	Adults            int      `json:"adults"`
	Children          int      `json:"children"`
	Infants           int      `json:"infants"`
	TravelClass       string   `json:"travel_class"`
	TripType          TripType `json:"trip_type,omitempty"`
	DirectOnly        bool     `json:"direct_only"`
	MaxStops          *int     `json:"max_stops,omitempty"`
	PreferredAirlines []string `json:"preferred_airlines,omitempty"`
	ExcludedAirlines  []string `json:"excluded_airlines,omitempty"`
	Flexibility       int      `json:"flexibility"`
	Loading           bool     `json:"loading"`
	ShowInput         bool     `json:"show_input"`
}

// NewConversationState returns the wizard's initial state. When the traveler's
// identity is already complete the wizard skips straight to trip type
// selection; otherwise it starts by collecting the first name.
func NewConversationState(identityComplete bool) ConversationState {
	state := ConversationState{
		Step:        StepFirstName,
		Adults:      1,
		TravelClass: ClassEconomy,
		ShowInput:   true,
	}
	if identityComplete {
		state.Step = StepTripType
		state.ShowInput = false
	}
	return state
}

// SetPassengers applies passenger counts, clamping infants so the count can
// never exceed the number of adults.
func (s *ConversationState) SetPassengers(adults, children, infants int) {
	if adults < 0 {
		adults = 0
	}
	if children < 0 {
		children = 0
	}
	if infants < 0 {
		infants = 0
	}
	if infants > adults {
		infants = adults
	}
	s.Adults = adults
	s.Children = children
	s.Infants = infants
}

// UserInfo is the traveler identity collected once per session. It outlives
// individual searches: a wizard reset clears the search fields but not this.
type UserInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Complete reports whether all four identity fields are filled in. Identity
// is only persisted once complete.
func (u UserInfo) Complete() bool {
	return u.FirstName != "" && u.LastName != "" && u.Email != "" && u.Phone != ""
}

// FullName joins first and last name for booking forms.
func (u UserInfo) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
