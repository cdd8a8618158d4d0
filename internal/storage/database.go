package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookingbot/backend/internal/models"
)

// DatabaseStore persists profiles and bookings in PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) SaveUserInfo(sessionID string, info models.UserInfo) error {
	if !info.Complete() {
		return fmt.Errorf("user info incomplete, not persisting")
	}

	profile := models.UserProfile{
		SessionID: sessionID,
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Email:     info.Email,
		Phone:     info.Phone,
	}

	var existing models.UserProfile
	err := s.db.Where("session_id = ?", sessionID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&profile).Error
	}
	if err != nil {
		return err
	}
	profile.ID = existing.ID
	return s.db.Save(&profile).Error
}

func (s *DatabaseStore) GetUserInfo(sessionID string) (models.UserInfo, error) {
	var profile models.UserProfile
	err := s.db.Where("session_id = ?", sessionID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserInfo{}, ErrNotFound
	}
	if err != nil {
		return models.UserInfo{}, err
	}
	return profile.Info(), nil
}

func (s *DatabaseStore) DeleteUserInfo(sessionID string) error {
	return s.db.Where("session_id = ?", sessionID).Delete(&models.UserProfile{}).Error
}

func (s *DatabaseStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	if booking.BookingReference == "" {
		booking.BookingReference = NewBookingReference()
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentStatusPending
	}
	if err := s.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DatabaseStore) GetBooking(reference string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Where("booking_reference = ?", reference).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *DatabaseStore) GetBookingByOrderID(orderID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Where("payment_order_id = ?", orderID).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *DatabaseStore) UpdateBooking(booking *models.Booking) error {
	return s.db.Save(booking).Error
}

func (s *DatabaseStore) GetBookingsByPaymentStatus(status string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := s.db.Where("payment_status = ?", status).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
