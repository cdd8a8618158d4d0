package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bookingbot/backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development.
type MemoryStore struct {
	profiles map[string]models.UserInfo
	bookings map[string]*models.Booking // keyed by booking reference

	profileMu sync.RWMutex
	bookingMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]models.UserInfo),
		bookings: make(map[string]*models.Booking),
	}
}

// SaveUserInfo persists a traveler identity. Incomplete identities are
// rejected: persistence only happens once all four fields are present.
func (m *MemoryStore) SaveUserInfo(sessionID string, info models.UserInfo) error {
	if !info.Complete() {
		return fmt.Errorf("user info incomplete, not persisting")
	}
	m.profileMu.Lock()
	defer m.profileMu.Unlock()
	m.profiles[sessionID] = info
	return nil
}

func (m *MemoryStore) GetUserInfo(sessionID string) (models.UserInfo, error) {
	m.profileMu.RLock()
	defer m.profileMu.RUnlock()
	info, exists := m.profiles[sessionID]
	if !exists {
		return models.UserInfo{}, ErrNotFound
	}
	return info, nil
}

func (m *MemoryStore) DeleteUserInfo(sessionID string) error {
	m.profileMu.Lock()
	defer m.profileMu.Unlock()
	delete(m.profiles, sessionID)
	return nil
}

func (m *MemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	if booking.BookingReference == "" {
		booking.BookingReference = NewBookingReference()
	}
	if _, exists := m.bookings[booking.BookingReference]; exists {
		return nil, fmt.Errorf("booking reference %s already exists", booking.BookingReference)
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentStatusPending
	}

	m.bookings[booking.BookingReference] = booking
	return booking, nil
}

func (m *MemoryStore) GetBooking(reference string) (*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()
	booking, exists := m.bookings[reference]
	if !exists {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (m *MemoryStore) GetBookingByOrderID(orderID string) (*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()
	for _, booking := range m.bookings {
		if booking.PaymentOrderID == orderID {
			return booking, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateBooking(booking *models.Booking) error {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()
	if _, exists := m.bookings[booking.BookingReference]; !exists {
		return ErrNotFound
	}
	booking.UpdatedAt = time.Now()
	m.bookings[booking.BookingReference] = booking
	return nil
}

func (m *MemoryStore) GetBookingsByPaymentStatus(status string) ([]*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()
	var out []*models.Booking
	for _, booking := range m.bookings {
		if booking.PaymentStatus == status {
			out = append(out, booking)
		}
	}
	return out, nil
}

// NewBookingReference generates a short uppercase booking reference like
// "FB-3F2A9C1D".
func NewBookingReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "FB-" + id[:8]
}
