package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/bookingbot/backend/internal/models"

	"github.com/bookingbot/backend/internal/storage"
)

// ChatSession is one active conversation: the wizard state, the transcript,
// the traveler identity and the booking sub-flow's selected offer. All
// mutation happens under mu, one discrete event at a time, so no transition
// is ever applied partially.
type ChatSession struct {
	ID string

	mu             sync.Mutex
	User           models.UserInfo
	State          models.ConversationState
	Log            models.MessageLog
	SelectedFlight *models.FlightOffer
	LastResult     *models.FlightSearchResult

	// lookup debounces/generations airport autocomplete dispatches so a
	// late response for a superseded query is discarded.
	lookup *Debouncer
	// searchGen makes exactly one in-flight search authoritative.
	searchGen uint64

	CreatedAt  time.Time
	LastActive time.Time
	ExpiresAt  time.Time
}

// SessionManager owns the active chat sessions. Traveler identity is loaded
// from the injected store at activation and written back only once complete.
type SessionManager struct {
	store    storage.Store
	sessions map[string]*ChatSession
	mu       sync.RWMutex
	ttl      time.Duration

	// LookupDebounce is the quiet period for airport autocomplete
	// dispatches. Zero dispatches immediately.
	LookupDebounce time.Duration
}

// NewSessionManager creates a session manager and starts its cleanup
// routine.
func NewSessionManager(store storage.Store, ttl time.Duration) *SessionManager {
	sm := &SessionManager{
		store:    store,
		sessions: make(map[string]*ChatSession),
		ttl:      ttl,
	}
	go sm.cleanupExpiredSessions()
	return sm
}

// Activate returns the session for the given ID, creating it when absent.
// Creation runs the initial branch exactly once: stored identity is loaded,
// the wizard starts at first_name or skips to trip_type, and the greeting
// is appended to the fresh transcript.
func (sm *SessionManager) Activate(sessionID string) *ChatSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sess, exists := sm.sessions[sessionID]; exists {
		sess.LastActive = time.Now()
		sess.ExpiresAt = time.Now().Add(sm.ttl)
		return sess
	}

	user, err := sm.store.GetUserInfo(sessionID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Failed to load user info for session %s: %v", sessionID, err)
	}

	now := time.Now()
	sess := &ChatSession{
		ID:         sessionID,
		User:       user,
		State:      models.NewConversationState(user.Complete()),
		lookup:     NewDebouncer(sm.LookupDebounce),
		CreatedAt:  now,
		LastActive: now,
		ExpiresAt:  now.Add(sm.ttl),
	}
	for _, effect := range InitialEffects(user) {
		if effect.Kind == EffectBotMessage {
			sess.Log.Append(models.SpeakerBot, effect.Text)
		}
	}

	sm.sessions[sessionID] = sess
	log.Printf("Session created: %s (identity complete: %v)", sessionID, user.Complete())
	return sess
}

// Get returns an existing, unexpired session.
func (sm *SessionManager) Get(sessionID string) (*ChatSession, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sess, exists := sm.sessions[sessionID]
	if !exists {
		return nil, errors.New("session not found")
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, errors.New("session expired")
	}
	return sess, nil
}

// NewSearch resets a session for a fresh search: transcript cleared,
// selected flight and results discarded, all search fields back to defaults.
// Identity is preserved, so the re-derived initial step skips to trip_type
// for a known traveler.
func (sm *SessionManager) NewSearch(sessionID string) *ChatSession {
	sess := sm.Activate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Log.Clear()
	sess.SelectedFlight = nil
	sess.LastResult = nil
	sess.lookup.Cancel()
	sess.State = models.NewConversationState(sess.User.Complete())
	for _, effect := range InitialEffects(sess.User) {
		if effect.Kind == EffectBotMessage {
			sess.Log.Append(models.SpeakerBot, effect.Text)
		}
	}

	log.Printf("Session %s reset for new search", sessionID)
	return sess
}

// ActiveSessions returns a count for the health endpoint.
func (sm *SessionManager) ActiveSessions() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	count := 0
	now := time.Now()
	for _, sess := range sm.sessions {
		if now.Before(sess.ExpiresAt) {
			count++
		}
	}
	return count
}

// ExpireIdle removes sessions past their TTL and returns how many were
// dropped. Called by the cleanup job as well as the internal ticker.
func (sm *SessionManager) ExpireIdle() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	expired := 0
	now := time.Now()
	for id, sess := range sm.sessions {
		if now.After(sess.ExpiresAt) {
			delete(sm.sessions, id)
			expired++
		}
	}
	return expired
}

// cleanupExpiredSessions runs periodically to drop idle sessions.
func (sm *SessionManager) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if n := sm.ExpireIdle(); n > 0 {
			log.Printf("Cleaned up %d expired sessions", n)
		}
	}
}
