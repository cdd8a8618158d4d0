package services

import (
	"strings"
	"testing"
	"time"

	"github.com/bookingbot/backend/internal/models"
	"github.com/bookingbot/backend/internal/storage"
)

func TestActivateGreetsOnce(t *testing.T) {
	sm := NewSessionManager(storage.NewMemoryStore(), time.Hour)

	sess := sm.Activate("s1")
	if sess.Log.Len() != 1 {
		t.Fatalf("activation should append one greeting, got %d messages", sess.Log.Len())
	}
	if sess.State.Step != models.StepFirstName {
		t.Errorf("new user should start at first_name, got %s", sess.State.Step)
	}

	// Re-activation returns the same session without repeating the greeting.
	again := sm.Activate("s1")
	if again != sess {
		t.Error("re-activation must return the existing session")
	}
	if again.Log.Len() != 1 {
		t.Errorf("re-activation must not repeat the greeting, got %d messages", again.Log.Len())
	}
}

func TestActivateLoadsStoredIdentity(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.SaveUserInfo("s1", completeUser); err != nil {
		t.Fatal(err)
	}
	sm := NewSessionManager(store, time.Hour)

	sess := sm.Activate("s1")

	if sess.State.Step != models.StepTripType {
		t.Errorf("known traveler should skip to trip_type, got %s", sess.State.Step)
	}
	last, _ := sess.Log.Last()
	if !strings.Contains(last.Text, "Welcome back, Alice") {
		t.Errorf("expected returning greeting, got %q", last.Text)
	}
}

func TestNewSearchPreservesIdentity(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.SaveUserInfo("s1", completeUser); err != nil {
		t.Fatal(err)
	}
	sm := NewSessionManager(store, time.Hour)

	sess := sm.Activate("s1")
	sess.mu.Lock()
	sess.State.Origin = "LHR"
	sess.State.DepartureDate = "2030-06-05"
	offer := sampleOffer()
	sess.SelectedFlight = &offer
	sess.LastResult = &models.FlightSearchResult{AllFlights: []models.FlightOffer{offer}}
	sess.Log.Append(models.SpeakerUser, "LHR")
	sess.mu.Unlock()

	sess = sm.NewSearch("s1")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.User != completeUser {
		t.Error("identity must survive a new-search reset")
	}
	if sess.State.Origin != "" || sess.State.DepartureDate != "" {
		t.Error("search fields must be cleared")
	}
	if sess.SelectedFlight != nil || sess.LastResult != nil {
		t.Error("selection and results must be discarded")
	}
	if sess.Log.Len() != 1 {
		t.Errorf("transcript should hold only the fresh greeting, got %d messages", sess.Log.Len())
	}
	if sess.State.Step != models.StepTripType {
		t.Errorf("reset with known identity should start at trip_type, got %s", sess.State.Step)
	}
}

func TestExpireIdle(t *testing.T) {
	sm := NewSessionManager(storage.NewMemoryStore(), time.Hour)

	fresh := sm.Activate("fresh")
	stale := sm.Activate("stale")
	stale.ExpiresAt = time.Now().Add(-time.Minute)

	if n := sm.ExpireIdle(); n != 1 {
		t.Fatalf("ExpireIdle removed %d sessions, want 1", n)
	}
	if _, err := sm.Get("stale"); err == nil {
		t.Error("expired session must be gone")
	}
	if got, err := sm.Get("fresh"); err != nil || got != fresh {
		t.Errorf("fresh session must survive cleanup: %v", err)
	}
}

func TestGetUnknownSession(t *testing.T) {
	sm := NewSessionManager(storage.NewMemoryStore(), time.Hour)
	if _, err := sm.Get("nope"); err == nil {
		t.Error("Get must fail for an unknown session")
	}
}
