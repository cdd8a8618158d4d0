package services

import (
	"strings"
	"testing"
	"time"
)

func TestExtractAirportCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare code", "LHR", "LHR"},
		{"code in sentence", "flying from LHR next week", "LHR"},
		{"lowercase input", "i want to fly from lhr", "LHR"},
		{"lowercase with filler words", "can you get me out of yyz", "YYZ"},
		{"uppercase beats earlier lowercase word", "fly me to JFK", "JFK"},
		{"first match wins", "JFK or LAX", "JFK"},
		{"no bare 3-letter token", "London Heathrow please", ""},
		{"only common words", "fly out now", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAirportCode(tt.text)
			if got != tt.want {
				t.Fatalf("ExtractAirportCode(%q) = %q, want %q", tt.text, got, tt.want)
			}
			if got != "" && !strings.Contains(strings.ToUpper(tt.text), got) {
				t.Fatalf("extracted code %q does not appear in input %q", got, tt.text)
			}
		})
	}
}

func TestExtractDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"numeric future", "25/12/2030", "2030-12-25"},
		{"numeric with dashes", "25-12-2030", "2030-12-25"},
		{"numeric past rejected", "25/12/2020", ""},
		{"day month year", "5 June 2027", "2027-06-05"},
		{"ordinal day month defaults year", "5th June", "2026-06-05"},
		{"ordinal before current date uses current year and fails", "5th January", ""},
		{"invalid calendar day", "32/01/2030", ""},
		{"month out of range", "10/13/2030", ""},
		{"no date at all", "sometime soon", ""},
		{"date embedded in sentence", "I'd like to leave on 14/07/2027 please", "2027-07-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractDateAt(tt.text, now)
			if got != tt.want {
				t.Fatalf("extractDateAt(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Today is deliberately not bookable via free text: only dates strictly
// after the current moment are accepted. Whether "today" should be allowed
// is an open product question; the current behavior excludes it.
func TestExtractDateTodayExcluded(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	if got := extractDateAt("10/03/2026", now); got != "" {
		t.Fatalf("today must be rejected, got %q", got)
	}
	if got := extractDateAt("11/03/2026", now); got != "2026-03-11" {
		t.Fatalf("tomorrow must be accepted, got %q", got)
	}
}

// The numeric pattern always reads DD/MM, never MM/DD. US-style input
// misparses; this is a documented limitation carried over from the
// reference behavior, not something to silently correct.
func TestExtractDateDayFirstAmbiguity(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	// 12/25/2030: first number is the day, 25 is no month, so no match.
	if got := extractDateAt("12/25/2030", now); got != "" {
		t.Fatalf("MM/DD-style input should fail DD/MM parsing, got %q", got)
	}
	// 05/06/2030 parses as 5 June, not May 6.
	if got := extractDateAt("05/06/2030", now); got != "2030-06-05" {
		t.Fatalf("expected day-first parse 2030-06-05, got %q", got)
	}
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"2 adults", 2, true},
		{"we are 12", 12, true},
		{"no digits here", 0, false},
		{"", 0, false},
		{"3 then 7", 3, true},
	}

	for _, tt := range tests {
		got, ok := ExtractNumber(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ExtractNumber(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractPassengers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want PassengerCounts
	}{
		{"adults and child", "2 adults, 1 child", PassengerCounts{Adults: 2, Children: 1, Infants: 0}},
		{"full breakdown", "2 adults 2 children 1 infant", PassengerCounts{Adults: 2, Children: 2, Infants: 1}},
		{"bare number is adults", "3", PassengerCounts{Adults: 3}},
		{"nothing found defaults to one adult", "just me", PassengerCounts{Adults: 1}},
		{"infants clamped to adults", "3 infants", PassengerCounts{Adults: 1, Infants: 1}},
		{"infants clamped with explicit adults", "1 adult 2 infants", PassengerCounts{Adults: 1, Infants: 1}},
		{"case insensitive", "2 ADULTS and 1 Infant", PassengerCounts{Adults: 2, Infants: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPassengers(tt.text)
			if got != tt.want {
				t.Fatalf("ExtractPassengers(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
			if got.Infants > got.Adults {
				t.Fatalf("infants %d exceed adults %d", got.Infants, got.Adults)
			}
		})
	}
}
