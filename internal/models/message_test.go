package models

import "testing"

func TestMessageLogAppendOrder(t *testing.T) {
	var log MessageLog

	log.Append(SpeakerBot, "What's your first name?")
	log.Append(SpeakerUser, "Alice")
	log.Append(SpeakerBot, "What's your last name?")

	msgs := log.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Speaker != SpeakerBot || msgs[1].Speaker != SpeakerUser {
		t.Fatalf("messages out of order: %+v", msgs)
	}
	if msgs[1].Text != "Alice" {
		t.Fatalf("expected user echo %q, got %q", "Alice", msgs[1].Text)
	}
}

func TestMessageLogCoalescesConsecutiveDuplicates(t *testing.T) {
	var log MessageLog

	if !log.Append(SpeakerUser, "Alice") {
		t.Fatal("first append should not coalesce")
	}
	// Same speaker, same text back to back: the re-render guard.
	if log.Append(SpeakerUser, "Alice") {
		t.Fatal("consecutive duplicate should coalesce")
	}
	if log.Len() != 1 {
		t.Fatalf("expected 1 entry after duplicate append, got %d", log.Len())
	}

	// Different speaker with the same text is not a duplicate.
	if !log.Append(SpeakerBot, "Alice") {
		t.Fatal("same text from other speaker must append")
	}

	// The original text may legitimately recur later in the transcript.
	if !log.Append(SpeakerUser, "Alice") {
		t.Fatal("non-consecutive repeat must append")
	}
	if log.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", log.Len())
	}
}

func TestMessageLogClear(t *testing.T) {
	var log MessageLog
	log.Append(SpeakerBot, "hello")
	log.Clear()
	if log.Len() != 0 {
		t.Fatalf("expected empty log after Clear, got %d entries", log.Len())
	}
	if _, ok := log.Last(); ok {
		t.Fatal("Last should report empty after Clear")
	}
}

func TestInfantsClampedToAdults(t *testing.T) {
	tests := []struct {
		name                      string
		adults, children, infants int
		wantInfants               int
	}{
		{"infants under adults", 2, 0, 1, 1},
		{"infants equal adults", 2, 0, 2, 2},
		{"infants over adults clamped", 1, 0, 3, 1},
		{"zero adults zero infants", 0, 1, 2, 0},
		{"negative counts floored", 1, -1, -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var state ConversationState
			state.SetPassengers(tt.adults, tt.children, tt.infants)
			if state.Infants != tt.wantInfants {
				t.Fatalf("infants = %d, want %d", state.Infants, tt.wantInfants)
			}
			if state.Infants > state.Adults {
				t.Fatalf("invariant violated: infants %d > adults %d", state.Infants, state.Adults)
			}
		})
	}
}

func TestNewConversationStateInitialBranch(t *testing.T) {
	fresh := NewConversationState(false)
	if fresh.Step != StepFirstName || !fresh.ShowInput {
		t.Fatalf("fresh session should start at first_name with input shown, got %+v", fresh)
	}
	if fresh.Adults != 1 || fresh.TravelClass != ClassEconomy {
		t.Fatalf("unexpected defaults: %+v", fresh)
	}

	returning := NewConversationState(true)
	if returning.Step != StepTripType || returning.ShowInput {
		t.Fatalf("returning session should skip to trip_type, got %+v", returning)
	}
}
