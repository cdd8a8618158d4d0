package storage

import (
	"errors"
	"testing"

	"github.com/bookingbot/backend/internal/models"
)

func TestSaveUserInfoRequiresCompleteIdentity(t *testing.T) {
	store := NewMemoryStore()

	partial := models.UserInfo{FirstName: "Alice", LastName: "Smith"}
	if err := store.SaveUserInfo("sess-1", partial); err == nil {
		t.Fatal("incomplete identity must not be persisted")
	}
	if _, err := store.GetUserInfo("sess-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	full := models.UserInfo{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "+44 123"}
	if err := store.SaveUserInfo("sess-1", full); err != nil {
		t.Fatalf("SaveUserInfo: %v", err)
	}
	got, err := store.GetUserInfo("sess-1")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if got != full {
		t.Fatalf("got %+v, want %+v", got, full)
	}
}

func TestBookingLifecycle(t *testing.T) {
	store := NewMemoryStore()

	booking, err := store.CreateBooking(&models.Booking{
		FlightID:      "offer-1",
		CustomerEmail: "alice@example.com",
		CustomerName:  "Alice Smith",
		Origin:        "LHR",
		Destination:   "CFU",
		BasePrice:     200,
		ServiceFee:    10,
		TotalPrice:    210,
		Currency:      "GBP",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.BookingReference == "" {
		t.Fatal("expected a generated booking reference")
	}
	if booking.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("new booking should be pending, got %q", booking.PaymentStatus)
	}

	booking.PaymentOrderID = "ORDER-1"
	booking.PaymentStatus = models.PaymentStatusApproved
	if err := store.UpdateBooking(booking); err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}

	byRef, err := store.GetBooking(booking.BookingReference)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if byRef.PaymentStatus != models.PaymentStatusApproved {
		t.Fatalf("status not updated, got %q", byRef.PaymentStatus)
	}

	byOrder, err := store.GetBookingByOrderID("ORDER-1")
	if err != nil {
		t.Fatalf("GetBookingByOrderID: %v", err)
	}
	if byOrder.BookingReference != booking.BookingReference {
		t.Fatalf("order lookup returned wrong booking: %q", byOrder.BookingReference)
	}

	approved, err := store.GetBookingsByPaymentStatus(models.PaymentStatusApproved)
	if err != nil {
		t.Fatalf("GetBookingsByPaymentStatus: %v", err)
	}
	if len(approved) != 1 {
		t.Fatalf("expected 1 approved booking, got %d", len(approved))
	}

	if _, err := store.GetBooking("FB-MISSING1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown reference, got %v", err)
	}
}

func TestNewBookingReferenceShape(t *testing.T) {
	ref := NewBookingReference()
	if len(ref) != 11 || ref[:3] != "FB-" {
		t.Fatalf("unexpected reference shape: %q", ref)
	}
}
