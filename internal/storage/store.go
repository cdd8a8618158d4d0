package storage

import (
	"errors"

	"github.com/bookingbot/backend/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for storage operations. The session store
// portion (user profiles) is injected into the conversation engine so the
// wizard never touches ambient global storage directly.
type Store interface {
	// User profile operations (session-scoped traveler identity)
	SaveUserInfo(sessionID string, info models.UserInfo) error
	GetUserInfo(sessionID string) (models.UserInfo, error)
	DeleteUserInfo(sessionID string) error

	// Booking operations
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBooking(reference string) (*models.Booking, error)
	GetBookingByOrderID(orderID string) (*models.Booking, error)
	UpdateBooking(booking *models.Booking) error
	GetBookingsByPaymentStatus(status string) ([]*models.Booking, error)
}
