package services

import (
	"strings"
	"testing"

	"github.com/bookingbot/backend/internal/models"
)

var completeUser = models.UserInfo{
	FirstName: "Alice",
	LastName:  "Smith",
	Email:     "alice@example.com",
	Phone:     "+44 123 456 7890",
}

func botTexts(effects []Effect) []string {
	var out []string
	for _, e := range effects {
		if e.Kind == EffectBotMessage {
			out = append(out, e.Text)
		}
	}
	return out
}

func countKind(effects []Effect, kind EffectKind) int {
	n := 0
	for _, e := range effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestInitialEffects(t *testing.T) {
	effects := InitialEffects(models.UserInfo{})
	if len(effects) != 1 || effects[0].Kind != EffectBotMessage {
		t.Fatalf("expected single greeting effect, got %v", effects)
	}
	if !strings.Contains(effects[0].Text, "first name") {
		t.Errorf("new-user greeting should ask for first name, got %q", effects[0].Text)
	}

	effects = InitialEffects(completeUser)
	if !strings.Contains(effects[0].Text, "Welcome back, Alice") {
		t.Errorf("returning greeting should use first name, got %q", effects[0].Text)
	}
}

func TestTransitionFirstName(t *testing.T) {
	state := models.NewConversationState(false)

	state, user, effects := Transition(state, models.UserInfo{}, Input{Kind: InputFreeText, Text: "Alice"})

	if user.FirstName != "Alice" {
		t.Errorf("expected first name Alice, got %q", user.FirstName)
	}
	if state.Step != models.StepLastName {
		t.Errorf("expected step last_name, got %s", state.Step)
	}
	if countKind(effects, EffectUserMessage) != 1 || countKind(effects, EffectBotMessage) != 1 {
		t.Errorf("expected one echo and one bot reply, got %v", effects)
	}
}

func TestTransitionRejectedInput(t *testing.T) {
	state := models.NewConversationState(false)
	state.Step = models.StepEmail

	next, user, effects := Transition(state, models.UserInfo{FirstName: "Alice", LastName: "Smith"},
		Input{Kind: InputFreeText, Text: "not-an-email"})

	if next.Step != models.StepEmail {
		t.Errorf("rejected input must not advance the step, got %s", next.Step)
	}
	if user.Email != "" {
		t.Errorf("rejected input must not set the field, got %q", user.Email)
	}
	if countKind(effects, EffectUserMessage) != 0 {
		t.Error("rejected input must not be echoed")
	}
	bots := botTexts(effects)
	if len(bots) != 1 || !strings.Contains(bots[0], "valid email") {
		t.Errorf("expected one corrective prompt, got %v", bots)
	}
}

func TestTransitionPhoneSavesIdentity(t *testing.T) {
	state := models.NewConversationState(false)
	state.Step = models.StepPhone
	user := models.UserInfo{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com"}

	next, user, effects := Transition(state, user, Input{Kind: InputFreeText, Text: "+44 123 456 7890"})

	if next.Step != models.StepTripType {
		t.Fatalf("expected step trip_type, got %s", next.Step)
	}
	if !user.Complete() {
		t.Fatal("identity should be complete after phone")
	}
	if countKind(effects, EffectSaveIdentity) != 1 {
		t.Errorf("completing identity should emit exactly one save effect, got %v", effects)
	}
}

func TestTransitionTripTypeFreeText(t *testing.T) {
	tests := []struct {
		text string
		want models.TripType
	}{
		{"round trip please", models.TripRoundTrip},
		{"one way", models.TripOneWay},
		{"I'd like a return flight", models.TripRoundTrip},
		{"multi city", models.TripMultiCity},
	}

	for _, tt := range tests {
		state := models.NewConversationState(true)
		next, _, _ := Transition(state, completeUser, Input{Kind: InputFreeText, Text: tt.text})
		if next.TripType != tt.want {
			t.Errorf("trip type from %q = %s, want %s", tt.text, next.TripType, tt.want)
		}
		if next.Step != models.StepOrigin {
			t.Errorf("after trip type %q expected step origin, got %s", tt.text, next.Step)
		}
	}
}

func TestTransitionOriginFreeTextWithCode(t *testing.T) {
	state := models.NewConversationState(true)
	state.Step = models.StepOrigin
	state.TripType = models.TripOneWay

	next, _, effects := Transition(state, completeUser, Input{Kind: InputFreeText, Text: "flying from LHR"})

	if next.Origin != "LHR" {
		t.Errorf("expected origin LHR, got %q", next.Origin)
	}
	if next.Step != models.StepDestination {
		t.Errorf("expected step destination, got %s", next.Step)
	}
	if countKind(effects, EffectAirportLookup) != 0 {
		t.Error("a bare code should not trigger an async lookup")
	}
}

func TestTransitionOriginFreeTextNeedsLookup(t *testing.T) {
	state := models.NewConversationState(true)
	state.Step = models.StepOrigin

	next, _, effects := Transition(state, completeUser, Input{Kind: InputFreeText, Text: "london heathrow"})

	if next.Step != models.StepOrigin {
		t.Errorf("step must stay origin until the lookup resolves, got %s", next.Step)
	}
	if countKind(effects, EffectAirportLookup) != 1 {
		t.Fatalf("expected one lookup effect, got %v", effects)
	}
	if effects[0].Query != "london heathrow" {
		t.Errorf("lookup query = %q, want the raw text", effects[0].Query)
	}
}

func TestTransitionRoundTripCollectsReturnDate(t *testing.T) {
	state := models.NewConversationState(true)
	state.Step = models.StepDepartureDate
	state.TripType = models.TripRoundTrip

	next, _, _ := Transition(state, completeUser, Input{Kind: InputDate, Date: "2030-06-05"})
	if next.Step != models.StepReturnDate {
		t.Fatalf("round trip should ask for return date, got %s", next.Step)
	}

	next, _, _ = Transition(next, completeUser, Input{Kind: InputDate, Date: "2030-06-12"})
	if next.Step != models.StepPassengers {
		t.Errorf("after return date expected step passengers, got %s", next.Step)
	}
	if next.ReturnDate != "2030-06-12" {
		t.Errorf("return date = %q", next.ReturnDate)
	}
}

func TestTransitionOneWaySkipsReturnDate(t *testing.T) {
	state := models.NewConversationState(true)
	state.Step = models.StepDepartureDate
	state.TripType = models.TripOneWay

	next, _, _ := Transition(state, completeUser, Input{Kind: InputDate, Date: "2030-06-05"})
	if next.Step != models.StepPassengers {
		t.Errorf("one-way should skip return date, got %s", next.Step)
	}
}

func TestFullWizardFiresOneSearch(t *testing.T) {
	state := models.NewConversationState(true)
	user := completeUser
	searchEffects := 0

	steps := []Input{
		{Kind: InputTripType, TripType: models.TripOneWay},
		{Kind: InputAirport, Airport: models.Airport{Code: "LHR", Name: "Heathrow"}},
		{Kind: InputAirport, Airport: models.Airport{Code: "JFK", Name: "John F. Kennedy"}},
		{Kind: InputDate, Date: "2030-06-05"},
		{Kind: InputPassengerAdjust, Adults: 2, Children: 1},
		{Kind: InputPassengerConfirm},
	}
	for _, in := range steps {
		var effects []Effect
		state, user, effects = Transition(state, user, in)
		searchEffects += countKind(effects, EffectStartSearch)
	}

	if searchEffects != 1 {
		t.Errorf("full wizard must fire exactly one search, got %d", searchEffects)
	}
	if state.Step != models.StepSearchSummary {
		t.Errorf("expected step search_summary, got %s", state.Step)
	}
	if state.Adults != 2 || state.Children != 1 {
		t.Errorf("passenger counts lost: %d adults, %d children", state.Adults, state.Children)
	}
}

func TestPassengerConfirmOnlyFromPassengersStep(t *testing.T) {
	state := models.NewConversationState(true)
	state.Step = models.StepOrigin

	next, _, effects := Transition(state, completeUser, Input{Kind: InputPassengerConfirm})
	if next.Step != models.StepOrigin || len(effects) != 0 {
		t.Errorf("confirm outside passengers step must be a no-op, got step %s, effects %v", next.Step, effects)
	}
}

func TestSearchSummaryMentionsRoute(t *testing.T) {
	state := models.NewConversationState(true)
	state.Origin = "LHR"
	state.Destination = "JFK"
	state.DepartureDate = "2030-06-05"
	state.TripType = models.TripOneWay
	state.Step = models.StepPassengers
	state.SetPassengers(2, 0, 0)

	_, _, effects := Transition(state, completeUser, Input{Kind: InputPassengerConfirm})

	bots := botTexts(effects)
	if len(bots) != 1 {
		t.Fatalf("expected one summary message, got %v", bots)
	}
	for _, want := range []string{"LHR", "JFK", "5 June 2030", "2 Adults"} {
		if !strings.Contains(bots[0], want) {
			t.Errorf("summary missing %q:\n%s", want, bots[0])
		}
	}
}
